// Command glimpse is a small workbench around the glimpse library: play an
// image sequence in a window, pick numbered points off an image, sample a
// field at arbitrary coordinates, or bundle a sequence into an animated GIF.
package main

import (
	"encoding/csv"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/glimpse"
	"github.com/phanxgames/glimpse/internal/config"
)

var (
	configFile string
	fps        float64
	loop       bool
	points     int
	output     string
	delayCS    int
	coords     []string
	showFPS    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "glimpse",
		Short: "interactive image and field inspection",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	viewCmd := &cobra.Command{
		Use:   "view [dir]",
		Short: "play an image sequence in a window",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
	viewCmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "playback frame rate")
	viewCmd.Flags().BoolVar(&loop, "loop", true, "loop playback")
	viewCmd.Flags().BoolVar(&showFPS, "show-fps", false, "overlay FPS/TPS counters")

	pickCmd := &cobra.Command{
		Use:   "pick [image]",
		Short: "click numbered points on an image and write them as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runPick,
	}
	pickCmd.Flags().IntVarP(&points, "points", "n", config.DefaultPoints, "number of points to collect")
	pickCmd.Flags().StringVarP(&output, "out", "o", "", "CSV output path (default stdout)")

	sampleCmd := &cobra.Command{
		Use:   "sample [image]",
		Short: "bilinearly sample an image's grayscale field",
		Args:  cobra.ExactArgs(1),
		RunE:  runSample,
	}
	sampleCmd.Flags().StringArrayVarP(&coords, "at", "p", nil, "coordinate to sample, as x,y (repeatable)")
	sampleCmd.Flags().StringVarP(&output, "out", "o", "", "CSV output path (default stdout)")

	gifCmd := &cobra.Command{
		Use:   "gif [dir]",
		Short: "bundle an image sequence into an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  runGIF,
	}
	gifCmd.Flags().IntVar(&delayCS, "delay", 10, "per-frame delay in 1/100s")
	gifCmd.Flags().StringVarP(&output, "out", "o", "out.gif", "GIF output path")

	rootCmd.AddCommand(viewCmd, pickCmd, sampleCmd, gifCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective config: defaults, then the --config
// file if given, then explicit flags on cmd, which win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = fps
	}
	if cmd.Flags().Changed("loop") {
		cfg.Loop = loop
	}
	if cmd.Flags().Changed("points") {
		cfg.Points = points
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = output
	}
	if cmd.Flags().Changed("show-fps") {
		cfg.Window.ShowFPS = showFPS
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	images, err := loadImageDir(args[0])
	if err != nil {
		return err
	}

	frames := make([]*ebiten.Image, len(images))
	for i, img := range images {
		frames[i] = ebiten.NewImageFromImage(img)
	}
	player := glimpse.NewPlayer(frames, cfg.FPS)
	player.SetLoop(cfg.Loop)
	player.Play()

	v := glimpse.NewViewer()
	v.SetPlayer(player)
	fitView(v, frames[0].Bounds(), cfg.Window.Width, cfg.Window.Height)

	return glimpse.Run(v, glimpse.RunConfig{
		Title:   fmt.Sprintf("glimpse: %s", filepath.Base(args[0])),
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		ShowFPS: cfg.Window.ShowFPS,
	})
}

func runPick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	img, err := loadImage(args[0])
	if err != nil {
		return err
	}

	v := glimpse.NewViewer()
	v.SetImage(ebiten.NewImageFromImage(img))
	fitView(v, img.Bounds(), cfg.Window.Width, cfg.Window.Height)

	picker := glimpse.NewPointPicker(v, v.ContentRect(), cfg.Points)
	v.SetUpdateFunc(func() error {
		if picker.Done() {
			return ebiten.Termination
		}
		return nil
	})

	err = glimpse.Run(v, glimpse.RunConfig{
		Title:  fmt.Sprintf("click to select %d points", cfg.Points),
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	})
	if err != nil {
		return err
	}

	xs, ys := picker.Points()
	return writePointsCSV(cfg.Output, xs, ys)
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(coords) == 0 {
		return fmt.Errorf("no coordinates given, use --at x,y")
	}
	img, err := loadImage(args[0])
	if err != nil {
		return err
	}
	field := glimpse.FieldFromImage(img)

	xs := make([]float64, len(coords))
	ys := make([]float64, len(coords))
	for i, c := range coords {
		x, y, err := parseCoord(c)
		if err != nil {
			return err
		}
		xs[i], ys[i] = x, y
	}

	vals, err := field.Bilinear(xs, ys)
	if err != nil {
		return err
	}

	w, closeFn, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}
	defer closeFn()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "value"}); err != nil {
		return err
	}
	for i := range vals {
		rec := []string{
			strconv.FormatFloat(xs[i], 'g', -1, 64),
			strconv.FormatFloat(ys[i], 'g', -1, 64),
			strconv.FormatFloat(vals[i], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func runGIF(cmd *cobra.Command, args []string) error {
	images, err := loadImageDir(args[0])
	if err != nil {
		return err
	}
	if err := glimpse.ExportGIF(output, images, delayCS); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", len(images), output)
	return nil
}

// fitView scales and centers the content inside the window.
func fitView(v *glimpse.Viewer, bounds image.Rectangle, winW, winH int) {
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	scale := float64(winW) / iw
	if s := float64(winH) / ih; s < scale {
		scale = s
	}
	v.SetView((float64(winW)-iw*scale)/2, (float64(winH)-ih*scale)/2, scale)
}

func parseCoord(s string) (x, y float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad coordinate %q, want x,y", s)
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad coordinate %q: %w", s, err)
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad coordinate %q: %w", s, err)
	}
	return x, y, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// loadImageDir reads every decodable PNG/JPEG in dir, sorted by filename.
func loadImageDir(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}
	sort.Strings(names)

	images := make([]image.Image, 0, len(names))
	for _, name := range names {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func writePointsCSV(path string, xs, ys []float64) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"n", "x", "y"}); err != nil {
		return err
	}
	for i := range xs {
		rec := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(xs[i], 'g', -1, 64),
			strconv.FormatFloat(ys[i], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// openOutput returns stdout for an empty path, or a created file plus its
// closer.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
