package cli

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"piper/internal/mousemap"
	"piper/internal/svgdoc"
	"piper/pkg/colorutil"
	"piper/pkg/geometry"
)

const (
	defaultLabelWidth  = 120
	defaultLabelHeight = 28
	defaultScale       = 1.0
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	file        string
	output      string
	layer       string
	highlight   string
	scale       float64
	spacing     float64
	labelWidth  float64
	labelHeight float64
	tint        string
}

var (
	labelFill   = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	labelBorder = color.NRGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff}
)

// newRenderCmd creates the render command, which lays out one placeholder
// box per anchor of a layer and writes the result as PNG.
func newRenderCmd(g *globalOpts) *cobra.Command {
	opts := renderOpts{
		layer:       "Buttons",
		scale:       defaultScale,
		spacing:     mousemap.DefaultSpacing,
		labelWidth:  defaultLabelWidth,
		labelHeight: defaultLabelHeight,
		tint:        "#1c71d8",
	}

	cmd := &cobra.Command{
		Use:   "render [model]",
		Short: "Render a device illustration with its controls laid out",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := ""
			if len(args) == 1 {
				model = args[0]
			}
			return runRender(cmd, g, model, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "render this SVG instead of looking up a model")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG (default: <illustration>-<layer>.png)")
	cmd.Flags().StringVarP(&opts.layer, "layer", "l", opts.layer, "interactive layer (Buttons or LEDs)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "anchor to draw highlighted (e.g. button0)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "pixels per layout unit")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", opts.spacing, "gap between illustration and controls")
	cmd.Flags().Float64Var(&opts.labelWidth, "label-width", opts.labelWidth, "placeholder control width")
	cmd.Flags().Float64Var(&opts.labelHeight, "label-height", opts.labelHeight, "placeholder control height")
	cmd.Flags().StringVar(&opts.tint, "tint", opts.tint, "device and highlight color")

	return cmd
}

func runRender(cmd *cobra.Command, g *globalOpts, model string, opts renderOpts) error {
	logger := loggerFromContext(cmd.Context())
	if opts.scale <= 0 {
		return errors.New("scale must be positive")
	}
	tint, err := colorutil.ParseHex(opts.tint)
	if err != nil {
		return err
	}

	doc, name, err := loadDocument(g, model, opts.file)
	if err != nil {
		return err
	}
	logger.Debug("loaded illustration", "file", name)

	img, err := renderLayout(doc, opts, tint, logger)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		output = fmt.Sprintf("%s-%s.png", base, strings.ToLower(opts.layer))
	}
	if err := writePNG(output, img); err != nil {
		return err
	}
	printFile(cmd.OutOrStdout(), output)
	return nil
}

// loadDocument opens file when set, otherwise the illustration for model.
func loadDocument(g *globalOpts, model, file string) (*svgdoc.Document, string, error) {
	if file != "" {
		doc, err := svgdoc.LoadFile(file)
		return doc, file, err
	}
	fsys, err := svgFS(g.svgDir)
	if err != nil {
		return nil, "", err
	}
	table, err := svgdoc.LoadLookup(fsys)
	if err != nil {
		return nil, "", err
	}
	return table.Open(model)
}

// renderLayout attaches a placeholder to every anchor of the layer, arranges
// them at the natural size and paints the result.
func renderLayout(doc *svgdoc.Document, opts renderOpts, tint color.Color, logger *log.Logger) (*image.RGBA, error) {
	if !doc.Has(opts.layer) {
		return nil, fmt.Errorf("illustration has no %q layer", opts.layer)
	}
	engine, err := mousemap.New(doc, opts.layer,
		mousemap.WithSpacing(opts.spacing),
		mousemap.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	size := geometry.NewSize(opts.labelWidth, opts.labelHeight)
	boxes := map[string]*placeholder{}
	for _, anchor := range layerAnchors(doc, opts.layer) {
		p := &placeholder{size: size}
		if engine.Attach(p, anchor.ID()) {
			boxes[anchor.ID()] = p
		}
	}
	if opts.highlight != "" {
		p, ok := boxes[opts.highlight]
		if !ok {
			return nil, fmt.Errorf("no control attached to %q", opts.highlight)
		}
		p.hover()
	}

	_, w := engine.MeasureWidth()
	_, h := engine.MeasureHeight()
	engine.Arrange(geometry.NewRect(0, 0, w, h))

	bounds := geometry.NewRect(0, 0, w*opts.scale, h*opts.scale).ToImage()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(colorutil.White), image.Point{}, draw.Src)

	engine.Paint(dst, mousemap.PaintOptions{
		Tint:  tint,
		Scale: opts.scale,
		DrawChild: func(c mousemap.Control) {
			if p, ok := c.(*placeholder); ok {
				drawBox(dst, p.rect.Scale(opts.scale))
			}
		},
	})
	return dst, nil
}

// layerAnchors lists the buttonN or ledN anchors that have a leader.
func layerAnchors(doc mousemap.Document, layer string) []mousemap.Anchor {
	anchorFor := mousemap.ButtonAnchor
	if layer == "LEDs" {
		anchorFor = mousemap.LEDAnchor
	}
	var anchors []mousemap.Anchor
	for i := 0; i < 20; i++ {
		a := anchorFor(i)
		if doc.Has(a.Leader()) {
			anchors = append(anchors, a)
		}
	}
	return anchors
}

func drawBox(dst draw.Image, r geometry.Rect) {
	outer := r.ToImage()
	draw.Draw(dst, outer, image.NewUniform(labelBorder), image.Point{}, draw.Src)
	inner := outer.Inset(int(math.Max(1, math.Round(r.Height/defaultLabelHeight))))
	draw.Draw(dst, inner, image.NewUniform(labelFill), image.Point{}, draw.Src)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// placeholder is a fixed-size control used for headless rendering.
type placeholder struct {
	size  geometry.Size
	rect  geometry.Rect
	enter func()
}

func (p *placeholder) MinSize() geometry.Size     { return p.size }
func (p *placeholder) NaturalSize() geometry.Size { return p.size }
func (p *placeholder) Visible() bool              { return true }
func (p *placeholder) Place(r geometry.Rect)      { p.rect = r }

func (p *placeholder) Observe(enter, leave func()) func() {
	p.enter = enter
	return func() { p.enter = nil }
}

func (p *placeholder) hover() {
	if p.enter != nil {
		p.enter()
	}
}
