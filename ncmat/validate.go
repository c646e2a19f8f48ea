package ncmat

import "fmt"

// validate runs whole-document checks that span multiple sections.
func (p *parser) validate() error {
	d := p.data
	if d.Cell == nil && len(d.AtomPositions) > 0 {
		return fmt.Errorf("ncmat: %s: @ATOMPOSITIONS present without @CELL", p.src.Description())
	}
	if len(d.AtomPositions) > 0 && d.Cell == nil {
		return fmt.Errorf("ncmat: %s: @CELL is required when @ATOMPOSITIONS is present", p.src.Description())
	}
	seenElems := map[string]bool{}
	for _, ap := range d.AtomPositions {
		seenElems[ap.ElementName] = true
	}
	for _, di := range d.DynInfos {
		if len(d.AtomPositions) > 0 && !seenElems[di.Element] {
			return fmt.Errorf("ncmat: %s: @DYNINFO references element %q not present in @ATOMPOSITIONS", p.src.Description(), di.Element)
		}
	}
	if d.DebyeTemp != nil && d.DebyeTemp.Global != 0 && len(d.DebyeTemp.PerElement) > 0 {
		return fmt.Errorf("ncmat: %s: @DEBYETEMPERATURE has both a global and per-element value", p.src.Description())
	}
	return nil
}
