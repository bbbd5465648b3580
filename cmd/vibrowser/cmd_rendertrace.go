package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vibrowser/internal/cache"
	"vibrowser/internal/pipeline"
	"vibrowser/internal/policy"
	"vibrowser/internal/render"
)

var traceOutPath string

var renderTraceCmd = &cobra.Command{
	Use:   "render-trace <url>",
	Short: "Navigate, then write a four-stage CanvasInit/BackgroundResolve/Paint/Complete render trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runRenderTrace,
}

func init() {
	renderTraceCmd.Flags().StringVar(&navHTMLPath, "html", "", "Path to the document's HTML bytes (required)")
	renderTraceCmd.Flags().StringVar(&navCSSPath, "css", "", "Path to the document's inline CSS, if any")
	renderTraceCmd.Flags().StringVar(&traceOutPath, "out", "trace.log", "Path to write the render trace")
	renderTraceCmd.MarkFlagRequired("html")
}

func runRenderTrace(cmd *cobra.Command, args []string) error {
	url := args[0]
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	htmlBytes, err := os.ReadFile(navHTMLPath)
	if err != nil {
		return fmt.Errorf("read html: %w", err)
	}
	var cssBytes []byte
	if navCSSPath != "" {
		cssBytes, err = os.ReadFile(navCSSPath)
		if err != nil {
			return fmt.Errorf("read css: %w", err)
		}
	}

	c, err := cache.New()
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer c.Close()

	engine := pipeline.NewEngine(c, logger)
	result := engine.Navigate(url, pipeline.NavigateOptions{
		HTML:      string(htmlBytes),
		InlineCSS: string(cssBytes),
		Policy: policy.RequestPolicy{
			AllowedSchemes:   cfg.AllowedSchemes,
			AllowCrossOrigin: cfg.AllowCrossOrigin,
			Origin:           cfg.Origin,
		},
		ViewportW: cfg.ViewportWidth,
		ViewportH: cfg.ViewportHeight,
	})

	printDiagnostics(result.Session.Emitter.Events())
	if !result.OK {
		fmt.Fprintln(os.Stderr, result.Message)
		os.Exit(1)
	}

	var trace []render.TraceEntry
	render.RenderToCanvasTraced(result.Pipeline.Layout, int(cfg.ViewportWidth), int(cfg.ViewportHeight), &trace)
	if err := render.WriteRenderTrace(trace, traceOutPath); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	fmt.Printf("wrote %d trace entries to %s\n", len(trace), traceOutPath)
	return nil
}
