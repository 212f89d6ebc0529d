/*
Package errors provides the error taxonomy of the data-access layer.

Every repository operation has exactly one native failure kind:

	CreateNewInstance  -> FailNewEntity
	Save               -> FailSaveEntity
	Fetch, FetchByID   -> FailFetchEntity
	FetchCount         -> FailFetchEntityCount
	Delete             -> FailDeleteEntity
	FetchModels        -> ModelError (FailCreateModel)

Failures coming from a store are converted at the repository boundary. Only
the message survives the conversion; the wrapped error value is not kept in
the chain:

	err := errors.Wrap(errors.FailSaveEntity, storeErr)
	errors.IsFailSaveEntity(err) // true
	errors.ReasonOf(err)         // storeErr.Error()

Wrap leaves an EntityCRUDError untouched, whatever its kind, while WrapModel
collapses everything, repository failures included, into a ModelError.

The package also carries the general purpose errors used by stores and
configuration:

	var (
	    ErrNotFound     = errors.New("entity not found")
	    ErrInvalidInput = errors.New("invalid input")
	    ErrUnknownField = errors.New("unknown field")
	)
*/
package errors
