package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrFabricNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "fabric")
}

type ErrFabricDuplicateName struct {
	error
}

func NewErrFabricDuplicateName(name string) *ErrFabricDuplicateName {
	return &ErrFabricDuplicateName{fmt.Errorf("fabric with name '%s' already exists", name)}
}

type ErrDatasetCorrupted struct {
	error
}

func NewErrDatasetCorrupted(message string) *ErrDatasetCorrupted {
	return &ErrDatasetCorrupted{fmt.Errorf("bad request: %s", message)}
}

type ErrFabricHasNoDataset struct {
	error
}

func NewErrFabricHasNoDataset(id uuid.UUID) *ErrFabricHasNoDataset {
	return &ErrFabricHasNoDataset{fmt.Errorf("fabric has no ingested dataset: %s", id)}
}
