package domain

import "errors"

// Sentinel errors raised by the services and repositories. Handlers map
// these onto HTTP status codes; anything not listed here is treated as an
// internal error and never leaks its text to the client.
var (
	// 400
	ErrSearchQueryRequired  = errors.New("search query is required")
	ErrInvalidRole          = errors.New("invalid role")
	ErrNoPasswordSet        = errors.New("this account does not allow password login")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrLastActiveAdmin      = errors.New("cannot disable the last active administrator")
	ErrBuyerRequired        = errors.New("either a buyer account id or a buyer name is required")
	ErrInvalidStatus        = errors.New("invalid vehicle status")
	ErrUnsupportedImageType = errors.New("unsupported image type")

	// 401
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotVerified = errors.New("account not verified")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWrongTokenType     = errors.New("wrong token type")

	// 403
	ErrForbidden             = errors.New("not allowed to perform this operation")
	ErrSystemAdminSelfDelete = errors.New("the system administrator cannot delete itself")
	ErrAdminSelfDelete       = errors.New("administrators cannot delete themselves")
	ErrAdminDeletePeer       = errors.New("administrators cannot delete other administrators")
	ErrDeleteOtherAccount    = errors.New("not allowed to delete this account")
	ErrSystemAdminDeactivate = errors.New("the system administrator cannot deactivate itself")

	// 404
	ErrAccountNotFound = errors.New("account not found")
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrPictureNotFound = errors.New("profile picture not found")

	// 409
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrPlateTaken         = errors.New("a vehicle with this plate already exists")
	ErrVehicleAlreadySold = errors.New("this vehicle has already been sold")
)
