package header

import "braces.dev/errtrace"

func init() {
	Register("From", func(v string) (Header, error) {
		na, err := ParseNameAddr(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &From{na}, nil
	})
	Register("To", func(v string) (Header, error) {
		na, err := ParseNameAddr(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &To{na}, nil
	})
}

// From is the structured From field: a user-field NameAddr plus its tag.
type From struct{ NameAddr }

func (h *From) Name() Name      { return "From" }
func (h *From) String() string  { return h.NameAddr.String() }
func (h *From) Clone() Header   { return &From{h.NameAddr.Clone()} }
func (h *From) Equal(other Header) bool {
	o, ok := other.(*From)
	return ok && h.NameAddr.Equal(o.NameAddr)
}

// To is the structured To field: a user-field NameAddr plus its tag.
type To struct{ NameAddr }

func (h *To) Name() Name     { return "To" }
func (h *To) String() string { return h.NameAddr.String() }
func (h *To) Clone() Header  { return &To{h.NameAddr.Clone()} }
func (h *To) Equal(other Header) bool {
	o, ok := other.(*To)
	return ok && h.NameAddr.Equal(o.NameAddr)
}
