// Command sketchrender rasterizes a saved drawing to a PNG or TIFF image.
//
// The drawing comes from a local JSON file or from the drawing API:
//
//	sketchrender -in plan.json -o plan.png
//	sketchrender -api http://localhost:5000 -index -1 -annotate -o latest.tiff
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"plan-sketcher/internal/client"
	"plan-sketcher/internal/config"
	"plan-sketcher/internal/drawing"
	"plan-sketcher/internal/render"
)

func main() {
	configPath := flag.String("config", "", "TOML config file")
	envFile := flag.String("env", ".env", "dotenv file with environment overrides")
	in := flag.String("in", "", "drawing JSON file to render")
	useAPI := flag.Bool("api", false, "fetch the drawing from the API instead of -in")
	index := flag.Int("index", -1, "drawing index in the API list; negative counts from the end")
	annotate := flag.Bool("annotate", false, "draw shape labels")
	out := flag.String("o", "drawing.png", "output image (.png, .tif or .tiff)")
	config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if *in == "" && !*useAPI {
		fmt.Println("Usage: sketchrender (-in <drawing.json> | -api [-index N]) [-annotate] [-o out.png]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyFlags(flag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flags: %v\n", err)
		os.Exit(1)
	}
	opts, err := cfg.Canvas.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid canvas config: %v\n", err)
		os.Exit(1)
	}

	var d drawing.Drawing
	if *useAPI {
		api := client.New(cfg.Client.APIURL, client.WithTimeout(cfg.Client.Timeout.Duration))
		d, err = fetchDrawing(context.Background(), api, *index)
	} else {
		d, err = readDrawing(*in)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load drawing: %v\n", err)
		os.Exit(1)
	}

	r := render.NewRenderer(opts)
	img := r.Render(render.Scene{Shapes: d.Shapes, Annotations: *annotate})
	if err := render.SaveImage(*out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Rendered %q (%d shapes) to %s (%dx%d)\n", d.Name, len(d.Shapes), *out, opts.Width, opts.Height)
}

func readDrawing(path string) (drawing.Drawing, error) {
	var d drawing.Drawing
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}

func fetchDrawing(ctx context.Context, api *client.Client, index int) (drawing.Drawing, error) {
	list, err := api.List(ctx)
	if err != nil {
		return drawing.Drawing{}, err
	}
	if len(list) == 0 {
		return drawing.Drawing{}, client.ErrNoDrawings
	}
	if index < 0 {
		index += len(list)
	}
	if index < 0 || index >= len(list) {
		return drawing.Drawing{}, errors.New("drawing index out of range")
	}
	return list[index], nil
}
