package catalog

import "errors"

var (
	ErrAssetNotFound      = errors.New("Asset not found")
	ErrDuplicateAsset     = errors.New("Asset number or serial number already exists")
	ErrCategoryNotFound   = errors.New("Category not found")
	ErrDepartmentNotFound = errors.New("Department not found")
	ErrDuplicateName      = errors.New("Name already exists")
	ErrDuplicateEmail     = errors.New("Email already exists")
)
