package speakermerge

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ReadMapping decodes a YAML document of "duplicate: canonical" id pairs.
func ReadMapping(r io.Reader) (Mapping, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return Mapping{}, nil
		}
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	out := make(Mapping, len(raw))
	for dup, canon := range raw {
		d, err := uuid.Parse(strings.TrimSpace(dup))
		if err != nil {
			return nil, fmt.Errorf("duplicate id %q: %w", dup, err)
		}
		c, err := uuid.Parse(strings.TrimSpace(canon))
		if err != nil {
			return nil, fmt.Errorf("canonical id %q for %s: %w", canon, d, err)
		}
		if d == c {
			continue
		}
		out[d] = c
	}
	return out, nil
}

// WriteMapping encodes m in the format ReadMapping accepts.
func WriteMapping(w io.Writer, m Mapping) error {
	raw := make(map[string]string, len(m))
	for dup, canon := range m {
		raw[dup.String()] = canon.String()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(raw); err != nil {
		return err
	}
	return enc.Close()
}
