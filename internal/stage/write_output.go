package stage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flarebyte/ssr/internal/render"
)

const writeOutputStage = "write-output"

func getOutputSettings(meta *Meta) (outPath string, format string, pretty bool) {
	outPath = "-"
	format = render.FormatJSON
	if meta != nil && meta.Output != nil {
		if meta.Output.Out != "" {
			outPath = meta.Output.Out
		}
		if meta.Output.Format != "" {
			format = meta.Output.Format
		}
		pretty = meta.Output.Pretty
	}
	return
}

func writeTo(w io.Writer, outPath string, data []byte) error {
	if outPath == "" || outPath == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write-output: %v", err)
		}
	}
	return os.WriteFile(outPath, data, 0o644)
}

func writeOutputRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	outPath, format, pretty := getOutputSettings(in.Meta)
	src := sourceFromMeta(in.Meta)

	var buf bytes.Buffer
	opts := render.Options{Pretty: pretty, Targets: src.Targets}
	if err := render.Write(&buf, format, in.Records, opts); err != nil {
		return Envelope{}, err
	}
	if err := writeTo(deps.stdout(), outPath, buf.Bytes()); err != nil {
		return Envelope{}, err
	}
	return in, nil
}

func init() { Register(writeOutputStage, writeOutputRunner) }
