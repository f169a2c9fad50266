package dto

type CategoryURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}
