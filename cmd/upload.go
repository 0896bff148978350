package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kozaktomas/photo-faces/internal/client"
	"github.com/kozaktomas/photo-faces/internal/constants"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <server-url> <folder-path> [folder-path...]",
	Short: "Upload photos to a running server",
	Long: `Upload photos from one or more folders to a running photo-faces server.

By default, only files in the specified folders are uploaded (non-recursive).
Use -r to search recursively in subdirectories.
Supported formats: jpg, jpeg, png, gif, webp, bmp

Example:
  photo-faces upload http://localhost:8080 /path/to/photos
  photo-faces upload --clear http://localhost:8080 /path/to/folder1 /path/to/folder2
  photo-faces upload -r http://localhost:8080 /path/to/photos  # recursive search`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().BoolP("recursive", "r", false, "Search for photos recursively in subdirectories")
	uploadCmd.Flags().Bool("clear", false, "Remove previously uploaded files first")
}

// isImageFile checks if a file has a supported image extension
func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
		return true
	}
	return false
}

// collectImages lists image files in a folder, optionally walking subdirectories.
func collectImages(folderPath string, recursive bool) ([]string, error) {
	info, err := os.Stat(folderPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access folder %s: %w", folderPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", folderPath)
	}

	var paths []string
	if recursive {
		err := filepath.WalkDir(folderPath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isImageFile(d.Name()) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("cannot walk folder %s: %w", folderPath, err)
		}
		return paths, nil
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read folder %s: %w", folderPath, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && isImageFile(entry.Name()) {
			paths = append(paths, filepath.Join(folderPath, entry.Name()))
		}
	}
	return paths, nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	serverURL := args[0]
	folderPaths := args[1:]
	recursive := mustGetBool(cmd, "recursive")

	var filePaths []string
	for _, folderPath := range folderPaths {
		paths, err := collectImages(folderPath, recursive)
		if err != nil {
			return err
		}
		filePaths = append(filePaths, paths...)
	}

	if len(filePaths) == 0 {
		fmt.Println("No image files found in the specified folders.")
		return nil
	}

	fmt.Printf("Found %d image(s) to upload from %d folder(s)\n", len(filePaths), len(folderPaths))

	c := client.New(serverURL)
	if mustGetBool(cmd, "clear") {
		cleared, err := c.ClearFiles()
		if err != nil {
			return fmt.Errorf("failed to clear files: %w", err)
		}
		fmt.Printf("Cleared %d previously uploaded file(s)\n", cleared)
	}

	bar := progressbar.NewOptions(len(filePaths),
		progressbar.OptionSetDescription("Uploading"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var uploaded int
	var uploadErrors []string
	for batch := range slices.Chunk(filePaths, constants.UploadBatchSize) {
		files, err := c.UploadFiles(batch)
		if err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%d file(s) starting at %s: %v", len(batch), filepath.Base(batch[0]), err))
		} else {
			uploaded += len(files)
		}
		bar.Add(len(batch))
	}
	fmt.Println()

	for _, errMsg := range uploadErrors {
		fmt.Printf("Failed: %s\n", errMsg)
	}

	if uploaded == 0 {
		return fmt.Errorf("no files were uploaded successfully")
	}

	fmt.Printf("\nDone! Uploaded %d file(s) to %s\n", uploaded, serverURL)
	return nil
}
