package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/moodlog/internal/importer"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run one import pass",
		Long:  "Imports every export file in the data directory once. Duplicates and malformed files are skipped.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

type fileOutput struct {
	importer.FileResult
	Error string `json:"error,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	report, err := importer.New(s, importer.Config{DataDir: cfg.DataDir}, logger).Run(cmd.Context())
	if err != nil {
		exitErr("import", err)
	}

	files := make([]fileOutput, 0, len(report.Files))
	for _, f := range report.Files {
		out := fileOutput{FileResult: f}
		if f.Err != nil {
			out.Error = f.Err.Error()
		}
		files = append(files, out)
	}

	b, _ := json.MarshalIndent(map[string]any{
		"run":   report.Run(),
		"files": files,
	}, "", "  ")
	fmt.Println(string(b))
}
