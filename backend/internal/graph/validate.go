package graph

import "unicode"

// MaxIDLength bounds node ids accepted by write operations
const MaxIDLength = 255

// ValidateID checks a node id supplied by a client before it reaches a query.
// Ids are non-empty, at most MaxIDLength bytes, and use only letters, digits,
// '-' and '_'.
func ValidateID(id string) error {
	if id == "" {
		return ErrInvalidNodeID{NodeID: id, Reason: "empty"}
	}
	if len(id) > MaxIDLength {
		return ErrInvalidNodeID{NodeID: id[:32] + "...", Reason: "too long"}
	}
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			continue
		}
		return ErrInvalidNodeID{NodeID: id, Reason: "contains disallowed characters"}
	}
	return nil
}

// ValidateNode checks the id and type of a node about to be written
func ValidateNode(n Node) error {
	if err := ValidateID(n.ID); err != nil {
		return err
	}
	if !n.Type.Valid() {
		return ErrInvalidNodeType{Value: string(n.Type)}
	}
	return nil
}
