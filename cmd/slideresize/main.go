// Command slideresize rescales a PowerPoint presentation to new physical
// canvas dimensions, repositioning and rescaling every shape and font
// proportionally.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	slideresize "github.com/VantageDataChat/SlideResize"
)

var (
	flagWidth   float64
	flagHeight  float64
	flagMode    string
	flagGrid    string
	flagNoGrid  bool
	flagVerbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "slideresize <input.pptx> <output.pptx>",
		Short: "Rescale a PowerPoint presentation to new physical dimensions",
		Long: `slideresize loads a .pptx file, rescales the slide canvas to the target
width and height in inches, and rewrites every shape, group, table and
font size proportionally. By default shape geometry is aligned to a
1/32 inch grid afterwards; use --no-grid to keep the raw scaled values.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       slideresize.Version,
		RunE:          run,
	}

	rootCmd.Flags().Float64Var(&flagWidth, "width", 36, "target canvas width in inches")
	rootCmd.Flags().Float64Var(&flagHeight, "height", 48, "target canvas height in inches")
	rootCmd.Flags().StringVar(&flagMode, "mode", "stretch", "scale mode: stretch, fit or fill")
	rootCmd.Flags().StringVar(&flagGrid, "grid", "1/32", "grid unit in inches (fraction like 1/32 or decimal)")
	rootCmd.Flags().BoolVar(&flagNoGrid, "no-grid", false, "skip the grid alignment pass")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	for _, path := range []string{input, output} {
		if !strings.HasSuffix(strings.ToLower(path), ".pptx") {
			color.Yellow("Warning: %s does not have a .pptx extension", path)
		}
	}

	if flagWidth <= 0 || flagHeight <= 0 {
		return fmt.Errorf("target dimensions must be positive (got %gx%g in)", flagWidth, flagHeight)
	}

	mode, err := slideresize.ParseScaleMode(flagMode)
	if err != nil {
		return err
	}

	opts := slideresize.Options{
		Mode:     mode,
		GridSnap: !flagNoGrid,
	}
	if !flagNoGrid {
		unit, err := parseGridUnit(flagGrid)
		if err != nil {
			return err
		}
		opts.GridUnit = unit
	}

	pres, err := slideresize.Open(input)
	if err != nil {
		return err
	}
	defer pres.Close()

	layout := pres.GetLayout()
	origW := slideresize.EMUToInch(layout.CX)
	origH := slideresize.EMUToInch(layout.CY)
	logger.Debug("loaded presentation",
		"path", input,
		"slides", pres.GetSlideCount(),
		"canvas_in", fmt.Sprintf("%.2fx%.2f", origW, origH))

	resizer := slideresize.NewResizer(
		slideresize.Inch(flagWidth),
		slideresize.Inch(flagHeight),
		opts,
	)
	factors, err := resizer.Apply(pres)
	if err != nil {
		return err
	}

	logger.Debug("applied scale factors",
		"sx", factors.SX, "sy", factors.SY, "font", factors.FontFactor,
		"grid", !flagNoGrid)
	for i, slide := range pres.GetAllSlides() {
		logger.Debug("resized slide", "slide", i+1, "shapes", slide.GetShapeCount())
	}

	if err := pres.Validate(); err != nil {
		return fmt.Errorf("resized presentation failed validation: %w", err)
	}

	if err := pres.Save(output); err != nil {
		return err
	}

	fmt.Printf("Resized %s (%d slide(s))\n", input, pres.GetSlideCount())
	fmt.Printf("  %.2f x %.2f in  ->  %.2f x %.2f in  (mode %s)\n",
		origW, origH, flagWidth, flagHeight, mode)
	color.Green("Saved %s", output)
	return nil
}

// parseGridUnit converts a grid size in inches, written as a fraction
// ("1/32") or a decimal ("0.03125"), to EMU.
func parseGridUnit(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, fmt.Errorf("invalid grid fraction %q", s)
		}
		s2 := n / d
		if s2 <= 0 {
			return 0, fmt.Errorf("grid unit must be positive, got %q", s)
		}
		return slideresize.Inch(s2), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid grid size %q (want a positive number of inches)", s)
	}
	return slideresize.Inch(v), nil
}
