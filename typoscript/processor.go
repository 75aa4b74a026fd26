package typoscript

import (
	"context"
	"log/slog"
)

// Chain holds the processor chains of one object, keyed by the property
// name they post-process. Each entry is a node whose children are applied in
// [Node.Keys] order:
//
//	__processors:
//	  value:
//	    1: {__processorName: wrap, prefix: "<p>", suffix: "</p>"}
//	    2: trim
//
// A child is either a node naming its processor under __processorName, with
// the remaining keys as options, or just the processor name.
type Chain Node

// Processor transforms a value.
type Processor interface {
	Process(ctx context.Context, value any) (any, error)
}

// ProcessorFunc adapts a function to [Processor].
type ProcessorFunc func(ctx context.Context, value any) (any, error)

// Process implements [Processor].
func (f ProcessorFunc) Process(ctx context.Context, value any) (any, error) {
	return f(ctx, value)
}

// ProcessorFactory builds a [Processor] from the options of one chain step.
type ProcessorFactory func(options Node) (Processor, error)

// Processors maps processor names to factories.
type Processors struct {
	factories registry[ProcessorFactory]
}

// NewProcessors returns an empty [Processors] registry.
func NewProcessors() *Processors { return &Processors{} }

// Register adds a factory under name. Registering a name twice is an
// [ErrImplementationExists] error.
func (p *Processors) Register(name string, factory ProcessorFactory) error {
	return p.factories.register("processor", name, factory)
}

// Lookup returns the factory registered as name.
func (p *Processors) Lookup(name string) (ProcessorFactory, bool) {
	return p.factories.lookup(name)
}

// Names returns the registered processor names, sorted.
func (p *Processors) Names() []string { return p.factories.ids() }

// step is one parsed entry of a processor chain.
type step struct {
	name    string
	options Node
}

// steps returns the ordered steps of the chain entry for name.
func (c Chain) steps(name string) ([]step, error) {
	entry, ok := AsNode(c[name])
	if !ok {
		return nil, nil
	}

	out := make([]step, 0, len(entry))

	for _, key := range entry.Keys() {
		switch v := entry[key].(type) {
		case string:
			out = append(out, step{name: v})

		default:
			options, ok := AsNode(v)
			if !ok {
				return nil, ErrInvalidValueType.With(
					slog.String("chain", name),
					slog.String("step", key),
				)
			}

			procName, _ := options[KeyProcessorName].(string)
			out = append(out, step{name: procName, options: options})
		}
	}

	return out, nil
}

// applyChain runs the chain entry for name over value.
func (p *Processors) applyChain(
	ctx context.Context,
	chain Chain,
	name string,
	value any,
) (any, error) {
	steps, err := chain.steps(name)
	if err != nil {
		return nil, err
	}

	for _, s := range steps {
		factory, ok := p.Lookup(s.name)
		if !ok {
			return nil, ErrUnknownProcessor.With(
				slog.String("processor", s.name),
				slog.String("chain", name),
			)
		}

		proc, err := factory(s.options)
		if err != nil {
			return nil, err
		}

		if value, err = proc.Process(ctx, value); err != nil {
			return nil, err
		}
	}

	return value, nil
}
