package streaming

import (
	"github.com/gemc-project/gemc-core/internal/gerr"
)

// NewFormat builds the Format backend named by tag (one of the
// `gstreamer` option's `format` values, spec.md §6). rootPath is only
// consulted by formats that need a side-channel file path beyond the
// io.Writer Streamer hands them (currently "root").
func NewFormat(tag, rootPath string) (Format, error) {
	switch tag {
	case "ascii":
		return ASCII{}, nil
	case "csv":
		return &CSV{}, nil
	case "json":
		return &JSON{}, nil
	case "root":
		return NewROOT(rootPath + ".root.db"), nil
	case "binary":
		return &BinaryFrame{}, nil
	case "grpc":
		return NewGRPCStream(DefaultGRPCConfig())
	default:
		return nil, gerr.Newf(gerr.StreamerFactoryNotFound, "unknown streaming format %q", tag).With("format", tag)
	}
}
