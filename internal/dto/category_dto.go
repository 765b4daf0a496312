package dto

import "github.com/google/uuid"

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=80"`
	Description *string `json:"description" validate:"omitempty,max=300"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=80"`
	Description *string `json:"description" validate:"omitempty,max=300"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
}
