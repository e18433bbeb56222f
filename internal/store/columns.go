package store

import "github.com/vbonduro/assettracker/internal/domain"

type assignment struct {
	column string
	value  any
}

// updateAssignments lists the columns an update touches, in a fixed order.
// Unset fields are skipped.
func updateAssignments(in domain.AssetUpdate) []assignment {
	var out []assignment
	if in.Name != nil {
		out = append(out, assignment{"name", *in.Name})
	}
	if in.Amount != nil {
		out = append(out, assignment{"amount", *in.Amount})
	}
	if in.Quantity != nil {
		out = append(out, assignment{"quantity", *in.Quantity})
	}
	if in.Description != nil {
		out = append(out, assignment{"description", nullIfEmpty(*in.Description)})
	}
	if in.Category != nil {
		out = append(out, assignment{"category", *in.Category})
	}
	return out
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
