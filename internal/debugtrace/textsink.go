package debugtrace

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// colorFor maps an event kind to a truecolor ANSI escape, following
// original_source/vmm/src/vm.rs's convention of a distinct color per
// opcode/decision (RECEIVE is dodger-blue, MUL is violet, RETURN is
// slate-blue, and so on) rather than one flat color for every line.
func colorFor(k Kind) string {
	switch k {
	case KindSpawn:
		return "\x1b[38;2;124;252;0m"
	case KindSend:
		return "\x1b[38;2;255;215;0m"
	case KindReceive:
		return "\x1b[38;2;0;255;127m"
	case KindReceiveBlocked:
		return "\x1b[38;2;220;20;60m"
	case KindTimeoutArmed, KindTimeoutExpired:
		return "\x1b[36m"
	case KindLink:
		return "\x1b[38;2;135;206;250m"
	case KindExit:
		return "\x1b[38;2;106;90;205m"
	case KindSchedulerPass:
		return "\x1b[36m"
	default:
		return "\x1b[36m"
	}
}

const resetColor = "\x1b[0m"

// TextSink writes one deterministic human-readable line per event to
// Out, colorizing the "[VM DEBUG]"-style prefix only when Out is a real
// terminal. Grounded on internal/evaluator/builtins_term.go's
// isatty.IsTerminal/IsCygwinTerminal detection, using the teacher's own
// github.com/mattn/go-isatty dependency.
type TextSink struct {
	Out    io.Writer
	color  bool
	passes uint64
}

// NewTextSink builds a sink writing to out. Color detection runs once,
// against the *os.File w (when Out is one) rather than os.Stdout,
// because the trace stream need not be stdout itself.
func NewTextSink(out io.Writer) *TextSink {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		color = false
	}
	return &TextSink{Out: out, color: color}
}

func (s *TextSink) Emit(e Event) {
	prefix := "[VM DEBUG]"
	if s.color {
		prefix = colorFor(e.Kind) + prefix + resetColor
	}
	switch e.Kind {
	case KindSchedulerPass:
		fmt.Fprintf(s.Out, "%s %s pass=%d\n", prefix, e.Kind, e.Passes)
	default:
		fmt.Fprintf(s.Out, "%s %s pid=%d %s\n", prefix, e.Kind, e.Pid, e.Detail)
	}
}

var _ Sink = (*TextSink)(nil)
