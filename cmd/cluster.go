package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kozaktomas/photo-faces/internal/config"
	"github.com/kozaktomas/photo-faces/internal/facecluster"
	"github.com/spf13/cobra"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <vectors.json>",
	Short: "Group face embeddings into people",
	Long: `Read face embeddings from a JSON file and print which people appear in
which file. The input has the same shape as POST /api/v1/faces/cluster:

  {"vectors": [[0.1, 0.2, ...], ...], "fileNames": ["a.jpg", ...]}

Example:
  photo-faces cluster embeddings.json
  photo-faces cluster --threshold 0.7 embeddings.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCluster,
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.Flags().Float64("threshold", 0, "Minimum cosine similarity to join a person (default from FACE_CLUSTER_THRESHOLD or 0.6)")
}

func runCluster(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	threshold := cfg.Faces.ClusterThreshold
	if t := mustGetFloat64(cmd, "threshold"); t > 0 {
		threshold = t
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	var req facecluster.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	result, err := facecluster.Cluster(req, threshold)
	if err != nil {
		return fmt.Errorf("clustering: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
