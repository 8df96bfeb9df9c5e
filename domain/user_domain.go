package domain

import (
	"errors"
)

var (
	MessageSuccessRegister     = "user registered successfully"
	MessageSuccessLogin        = "login success"
	MessageSuccessGetMe        = "success get profile"
	MessageSuccessGetUsers     = "success get users"
	MessageSuccessSetPassword  = "password changed successfully"
	MessageSuccessForgotSent   = "reset password email sent"
	MessageSuccessResetPass    = "password reset successfully"
	MessageSuccessUpdateUser   = "user updated successfully"
	MessageSuccessUploadAvatar = "avatar uploaded successfully"

	MessageFailedRegister    = "failed to register user"
	MessageFailedLogin       = "failed to login"
	MessageFailedGetMe       = "failed to get profile"
	MessageFailedGetUsers    = "failed to get users"
	MessageFailedSetPassword = "failed to change password"
	MessageFailedForgotSent  = "failed to send reset password email"
	MessageFailedResetPass   = "failed to reset password"
	MessageFailedUpdateUser  = "failed to update user"

	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrCredentialsNotMatched = errors.New("credentials not matched")
	ErrPasswordNotMatch      = errors.New("current password not matched")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	UpdateUserRequest struct {
		FirstName string `json:"first_name" validate:"omitempty,max=150"`
		LastName  string `json:"last_name" validate:"omitempty,max=150"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	UserListResponse struct {
		Users []UserResponse `json:"users"`
		Total int64          `json:"total"`
	}
)
