package hint

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/chunkproc/cairohints/ids"
	"github.com/chunkproc/cairohints/input"
	"github.com/chunkproc/cairohints/vm"
	"github.com/chunkproc/cairohints/writer"
)

// Context is everything a hint invocation may use. It lives for one
// invocation only.
type Context struct {
	VM     *vm.VirtualMachine
	Data   *vm.HintData
	Ids    *ids.Resolver
	Inputs *input.Store
	Out    io.Writer // diagnostic output
	Log    zerolog.Logger

	written int
}

// NewContext binds a hint invocation to the machine state.
func NewContext(v *vm.VirtualMachine, data *vm.HintData, inputs *input.Store, out io.Writer, log zerolog.Logger) *Context {
	if out == nil {
		out = io.Discard
	}
	return &Context{
		VM:     v,
		Data:   data,
		Ids:    ids.NewResolver(v, data),
		Inputs: inputs,
		Out:    out,
		Log:    log,
	}
}

// Code returns the source text of the hint being executed.
func (c *Context) Code() string {
	return c.Data.Code
}

// Writer returns a fresh staging writer over the machine memory.
func (c *Context) Writer() *writer.Writer {
	return writer.New(c.VM.Memory)
}

// Commit commits w and accounts the written cells to this invocation.
func (c *Context) Commit(w *writer.Writer) error {
	n, err := w.Commit()
	c.written += n
	return err
}

// Written returns the number of memory cells committed so far.
func (c *Context) Written() int {
	return c.written
}
