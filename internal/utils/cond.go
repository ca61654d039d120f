package querybuilder

type condType int

const (
	condTypeAnd condType = iota + 1
	condTypeOr
)

func (c condType) String() string {
	switch c {
	case condTypeAnd:
		return "AND"
	case condTypeOr:
		return "OR"
	default:
		return ""
	}
}

type condition struct {
	condType condType
	clause   string
	args     []interface{}
}
