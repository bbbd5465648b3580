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

var (
	navHTMLPath string
	navCSSPath  string
	navOutPPM   string
	navOutText  string
)

var navigateCmd = &cobra.Command{
	Use:   "navigate <url>",
	Short: "Drive one navigation through fetch/parse/style/layout/render and print its diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runNavigate,
}

func init() {
	navigateCmd.Flags().StringVar(&navHTMLPath, "html", "", "Path to the document's HTML bytes (required)")
	navigateCmd.Flags().StringVar(&navCSSPath, "css", "", "Path to the document's inline CSS, if any")
	navigateCmd.Flags().StringVar(&navOutPPM, "out-ppm", "", "Write the rendered canvas as a PPM image to this path")
	navigateCmd.Flags().StringVar(&navOutText, "out-text", "", "Write the naive text rendering to this path")
	navigateCmd.MarkFlagRequired("html")
}

func runNavigate(cmd *cobra.Command, args []string) error {
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
	c.SetPolicy(cache.CacheAll)

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

	fmt.Printf("render_count=%d session=%s\n", result.Pipeline.RenderCount, result.Session.ID)

	if navOutPPM != "" {
		if err := render.WritePPM(result.Pipeline.Canvas, navOutPPM); err != nil {
			return fmt.Errorf("write ppm: %w", err)
		}
	}
	if navOutText != "" {
		text := render.RenderToText(result.Pipeline.Layout, 80)
		if err := os.WriteFile(navOutText, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	return nil
}
