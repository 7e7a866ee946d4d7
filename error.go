package subranges

var (
	ErrNotFound        = &AllocError{"no free interval satisfies the request"}
	ErrInvalidInterval = &AllocError{"interval start is greater than end"}
	ErrInvalidArgument = &AllocError{"length and alignment must be positive"}
	ErrOverlap         = &AllocError{"interval overlaps an existing free interval"}
)

type AllocError struct {
	Msg string
}

func (e *AllocError) Error() string {
	return e.Msg
}

func (e *AllocError) Is(target error) bool {
	if targetErr, ok := target.(*AllocError); ok {
		return e.Msg == targetErr.Msg
	}
	return false
}
