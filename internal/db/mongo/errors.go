package mongo

// Op constants name the engine operations for error context.
const (
	OpAggregate = "aggregate"
	OpInsertOne = "insertOne"
	OpFindOne   = "findOne"
	OpIndexes   = "createIndexes"
)

// Error wraps an underlying driver error with the operation name.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
