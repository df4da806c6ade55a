package users

import (
	"github.com/shopcircle/backend/pkg/enums"
	pkgpagination "github.com/shopcircle/backend/pkg/pagination"
)

type ListParams struct {
	Search string
	Role   string
	Status string
	pkgpagination.Params
}

type ListResult struct {
	Items  []UserDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

type listQuery struct {
	search string
	role   enums.UserRole
	active *bool
	limit  int
	cursor *pkgpagination.Cursor
}
