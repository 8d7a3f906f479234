package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	domain "tsumego/internal/domain/game"
	"tsumego/internal/gametree"
	"tsumego/internal/render/pdf"
	gameuc "tsumego/internal/usecase/game"
)

type exportOptions struct {
	path  string
	crop  int
	title string
	size  int
}

// exportDiagram renders the position at opts.path of a record as a PDF page.
func exportDiagram(log *zap.SugaredLogger, data []byte, opts exportOptions, w io.Writer) (*domain.Position, error) {
	session := gameuc.NewSession(log, gameuc.SessionConfig{DefaultSize: opts.size})
	if err := session.LoadBytes(data); err != nil {
		return nil, err
	}
	path, ok := gametree.ParsePath(opts.path)
	if !ok {
		return nil, fmt.Errorf("bad path %q", opts.path)
	}
	if len(path) > 0 {
		if err := session.GoTo(path); err != nil {
			return nil, err
		}
	}
	if opts.crop >= 0 {
		session.Crop(opts.crop)
	}
	pos := session.Position()

	diagram := pdf.New(pos.Size)
	diagram.SetTitle(opts.title)
	if pos.Region != nil {
		diagram.ShowRegion(*pos.Region)
	}
	session.Board().SetRenderer(diagram)
	session.Board().Render(true)

	if err := diagram.Write(w); err != nil {
		return nil, err
	}
	return pos, nil
}

func main() {
	in := pflag.StringP("in", "i", "", "SGF file to read")
	out := pflag.StringP("out", "o", "diagram.pdf", "PDF file to write")
	path := pflag.StringP("path", "p", "", "comma separated node path, empty for the game root")
	crop := pflag.Int("crop", -1, "crop to the stones with this padding, negative keeps the whole board")
	title := pflag.String("title", "", "diagram title")
	size := pflag.Int("size", 19, "board size when the record has no SZ")
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log := logger.Sugar()
	defer log.Sync()

	if *in == "" {
		pflag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *in, err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *out, err)
	}
	defer f.Close()

	pos, err := exportDiagram(log, data, exportOptions{path: *path, crop: *crop, title: *title, size: *size}, f)
	if err != nil {
		log.Fatalf("failed to export diagram: %v", err)
	}

	fmt.Println(strings.Join(pos.Rows, "\n"))
	log.Infof("diagram of %s at [%s] written to %s", *in, gametree.FormatPath(pos.Path), *out)
}
