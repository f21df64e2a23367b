package debugtrace

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
)

// traceEventProto is a minimal in-memory schema for one trace record.
// There is no .proto file on disk for this — the schema only exists to
// give protoparse/dynamic something to build a descriptor from — so
// parsing uses an in-memory FileContentsFromMap accessor rather than
// the teacher's on-disk ParseFiles(path) call.
const traceEventProto = `
syntax = "proto3";
package ionvm.debugtrace;

message TraceEvent {
  string kind = 1;
  uint64 pid = 2;
  string detail = 3;
  uint64 passes = 4;
}
`

// ProtoSink encodes each Event as a length-prefixed dynamic protobuf
// message and writes it to Out. Grounded on
// internal/evaluator/builtins_grpc.go's protoparse.Parser + dynamic.NewMessage
// + dynamic.Message.Marshal pattern for building and encoding messages
// without any generated Go code, using the teacher's own
// github.com/jhump/protoreflect and google.golang.org/protobuf
// dependencies. No gRPC service is started; this sink only serializes.
type ProtoSink struct {
	Out io.Writer
	md  *desc.MessageDescriptor

	mu sync.Mutex
}

// NewProtoSink parses the in-memory trace schema and returns a sink
// ready to encode events to out.
func NewProtoSink(out io.Writer) (*ProtoSink, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			"trace_event.proto": traceEventProto,
		}),
	}
	fds, err := parser.ParseFiles("trace_event.proto")
	if err != nil {
		return nil, fmt.Errorf("debugtrace: parsing trace schema: %w", err)
	}
	md := fds[0].FindMessage("ionvm.debugtrace.TraceEvent")
	if md == nil {
		return nil, fmt.Errorf("debugtrace: TraceEvent message not found in parsed schema")
	}
	return &ProtoSink{Out: out, md: md}, nil
}

func (s *ProtoSink) Emit(e Event) {
	msg := dynamic.NewMessage(s.md)
	_ = msg.TrySetFieldByName("kind", e.Kind.String())
	_ = msg.TrySetFieldByName("pid", e.Pid)
	_ = msg.TrySetFieldByName("detail", e.Detail)
	_ = msg.TrySetFieldByName("passes", e.Passes)

	data, err := msg.Marshal()
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(data)))
	s.Out.Write(lenPrefix[:])
	s.Out.Write(data)
}

var _ Sink = (*ProtoSink)(nil)
