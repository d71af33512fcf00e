package main

import (
	"context"
	"fmt"
	"os"

	dscopilot "github.com/AltairTheSon/manex-ds-copilot"
	"github.com/AltairTheSon/manex-ds-copilot/internal/config"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/connstore"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	figmaURL         string
	accessToken      string
	outputFile       string
	exportThumbnails bool
	thumbnailDir     string
	debug            bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ds-copilot",
		Short: "Analyze Figma design files",
		Long:  "A tool to extract pages, design tokens, styles, components, and artboard thumbnails from Figma files via the Figma API",
	}

	rootCmd.PersistentFlags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL")
	rootCmd.PersistentFlags().StringVarP(&accessToken, "token", "t", "", "Figma Personal Access Token (defaults to config file or FIGMA_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Emit structured debug logs on stderr")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a full analysis and write a markdown report",
		Run:   runAnalyze,
	}
	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "DESIGN_ANALYSIS.md", "Output markdown file")
	analyzeCmd.Flags().BoolVar(&exportThumbnails, "export-thumbnails", false, "Download resolved thumbnails")
	analyzeCmd.Flags().StringVar(&thumbnailDir, "thumbnail-dir", "design-thumbnails", "Output directory for downloaded thumbnails")

	artboardsCmd := &cobra.Command{
		Use:   "artboards <page-id>",
		Short: "List one page's artboards with thumbnails",
		Args:  cobra.ExactArgs(1),
		Run:   runArtboards,
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Check whether the remote file changed since the last analysis",
		Run:   runSync,
	}

	connectionCmd := &cobra.Command{
		Use:   "connection",
		Short: "Inspect or clear the stored connection",
	}
	connectionCmd.AddCommand(
		&cobra.Command{Use: "show", Short: "Show the stored connection", Run: runConnectionShow},
		&cobra.Command{Use: "clear", Short: "Remove the stored connection", Run: runConnectionClear},
	)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ds-copilot version %s\n", dscopilot.Version)
		},
	}

	rootCmd.AddCommand(analyzeCmd, artboardsCmd, syncCmd, connectionCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildOptions merges flags, the config file, and the environment.
func buildOptions() dscopilot.Options {
	red := color.New(color.FgRed)

	var cfg config.Config
	if path, err := config.DefaultPath(); err == nil {
		if loaded, err := config.Load(path); err != nil {
			red.Printf("Warning: %v\n", err)
		} else {
			cfg = loaded
		}
	}
	cfg = cfg.MergeEnv()

	if accessToken == "" {
		accessToken = cfg.Token
	}
	if figmaURL == "" {
		figmaURL = cfg.FileURL
	}
	if thumbnailDir == "" {
		thumbnailDir = cfg.ThumbnailDir
	}

	if accessToken == "" || figmaURL == "" {
		red.Println("Error: an access token (--token) and file URL (--url) are required")
		os.Exit(1)
	}

	return dscopilot.Options{
		AccessToken:      accessToken,
		FileURL:          figmaURL,
		ExportThumbnails: exportThumbnails,
		ThumbnailDir:     thumbnailDir,
		Debug:            debug,
		Logger:           &cliLogger{},
	}
}

func runAnalyze(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n🎨 Design Copilot")
	cyan.Println("==================")
	cyan.Println()

	report, err := dscopilot.Run(context.Background(), buildOptions())
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	result := report.Analysis
	cyan.Println("\n📊 Analysis Summary:")
	fmt.Printf("  • File: %s (version %s)\n", result.FileInfo.Name, result.FileInfo.Version)
	fmt.Printf("  • Pages: %d\n", len(result.Pages))
	fmt.Printf("  • Design Tokens: %d\n", len(result.DesignTokens))
	fmt.Printf("  • Local Styles: %d\n", len(result.LocalStyles))
	fmt.Printf("  • Components: %d\n", len(result.Components))
	fmt.Printf("  • Artboards: %d\n", len(result.Artboards))
	if len(report.Thumbnails) > 0 {
		fmt.Printf("  • Downloaded Thumbnails: %d\n", len(report.Thumbnails))
	}

	green.Printf("\n💾 Writing to %s... ", outputFile)
	if err := os.WriteFile(outputFile, []byte(report.Markdown), 0644); err != nil {
		red.Printf("✗\n")
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	green.Println("✓")

	green.Printf("\n✨ Analysis written to %s\n\n", outputFile)
}

func runArtboards(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	artboards, err := dscopilot.PageArtboards(context.Background(), buildOptions(), args[0])
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cyan.Printf("\n🖼  %d artboard(s)\n\n", len(artboards))
	for _, a := range artboards {
		fmt.Printf("  • %s (%.0fx%.0f)\n", a.Name, a.Width, a.Height)
		if a.ImageURL != "" {
			fmt.Printf("    %s\n", a.ImageURL)
		}
	}
	fmt.Println()
}

func runSync(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	changed, err := dscopilot.Sync(context.Background(), buildOptions())
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if changed {
		yellow.Println("The remote file has changed since the last analysis")
	} else {
		green.Println("The file is unchanged")
	}
}

func runConnectionShow(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	store, err := defaultStore()
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	conn, ok := store.Get()
	if !ok {
		fmt.Println("No stored connection")
		return
	}

	cyan.Println("\n🔗 Stored Connection")
	fmt.Printf("  • Kind: %s\n", conn.Kind)
	fmt.Printf("  • File: %s (%s)\n", conn.FileInfo.Name, conn.FileInfo.Key)
	fmt.Printf("  • Last connected: %s\n", conn.LastConnected.Format("2006-01-02 15:04"))
	fmt.Printf("  • Usable: %v\n", store.IsValid())
}

func runConnectionClear(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	store, err := defaultStore()
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := store.Clear(); err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	green.Println("Stored connection removed")
}

func defaultStore() (*connstore.Store, error) {
	dir, err := connstore.DefaultDir()
	if err != nil {
		return nil, err
	}
	return connstore.New(dir), nil
}

// cliLogger implements dscopilot.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
