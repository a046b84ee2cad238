package dmn

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Parse decodes a DMN document. The root element must be <definitions>;
// the namespace is not checked so DMN 1.1 to 1.5 documents all decode.
func Parse(document []byte) (*Definitions, error) {
	if len(bytes.TrimSpace(document)) == 0 {
		return nil, fmt.Errorf("empty DMN document")
	}

	var defs Definitions
	dec := xml.NewDecoder(bytes.NewReader(document))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse DMN: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "definitions" {
			return nil, fmt.Errorf("unexpected root element %q (expected definitions)", start.Name.Local)
		}
		if err := dec.DecodeElement(&defs, &start); err != nil {
			return nil, fmt.Errorf("failed to parse DMN: %w", err)
		}
		return &defs, nil
	}
}
