// Package source turns configuration files into fragments: the parsed,
// not-yet-merged content of one file.
//
// A [Strategy] is chosen per file extension. The package ships a YAML
// strategy, which keeps every document of a multi-document file, and a JSON
// strategy, which reads exactly one document. Callers can register their own
// strategies for other formats.
package source

// Strategy loads one configuration file.
type Strategy interface {
	// LoadConfiguration reads and parses the file at path, an absolute path.
	LoadConfiguration(path string) (Fragment, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(path string) (Fragment, error)

// LoadConfiguration calls f(path).
func (f StrategyFunc) LoadConfiguration(path string) (Fragment, error) {
	return f(path)
}

// Kind tells the two fragment shapes apart.
type Kind int

const (
	// KindSingle is a fragment holding one document.
	KindSingle Kind = iota
	// KindSequence is a fragment holding an ordered list of documents, e.g.
	// the documents of a multi-document YAML file.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Fragment is the content of one file: either a single document or a
// sequence of documents. Documents are values from the canonical value set;
// only mappings take part in merging.
type Fragment struct {
	kind Kind
	docs []any
}

// Single returns a fragment holding one document.
func Single(doc any) Fragment {
	return Fragment{kind: KindSingle, docs: []any{doc}}
}

// Sequence returns a fragment holding docs in order.
func Sequence(docs ...any) Fragment {
	return Fragment{kind: KindSequence, docs: docs}
}

// Kind reports the fragment shape.
func (f Fragment) Kind() Kind {
	return f.kind
}

// Documents flattens the fragment into its ordered documents.
func (f Fragment) Documents() []any {
	out := make([]any, len(f.docs))
	copy(out, f.docs)
	return out
}

// Len returns the number of documents.
func (f Fragment) Len() int {
	return len(f.docs)
}
