package service

import (
	"SwiftShare/internal/repo"
	"SwiftShare/model"
	"SwiftShare/utils"
	"errors"
	"time"

	"golang.org/x/net/context"
)

const userInfoCacheTTL = 10 * time.Minute

// CreateUser hashes password and creates a user.
func CreateUser(user *model.User) error {
	user.Password = utils.GetPwd(user.Password)
	if err := repo.Db.Create(user).Error; err != nil {
		return err
	}
	return nil
}

// FindUserNameById returns the username for an id, cache first.
func FindUserNameById(ctx context.Context, userId uint64) (string, error) {
	if cached, ok := utils.GetUserInfoFromCache(ctx, userId); ok {
		return cached.UserName, nil
	}
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("id = ?", userId).First(&user).Error; err != nil {
		return "", err
	}
	_ = utils.SetUserInfoToCache(ctx, userId, &user, userInfoCacheTTL)
	return user.UserName, nil
}

// IsExist checks whether a user exists.
func IsExist(username string) (*model.User, error) {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("user_name = ?", username).First(&user).Error; err != nil {
		return &model.User{}, err
	}
	return &user, nil
}

// CheckPassword verifies a user's password.
func CheckPassword(username, password string) error {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("user_name = ?", username).First(&user).Error; err != nil {
		return err
	}
	if !utils.CheckPwd(password, user.Password) {
		return errors.New("password error")
	}
	return nil
}

// IsEmailExist checks whether an email exists.
func IsEmailExist(email string) error {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("email = ?", email).First(&user).Error; err != nil {
		return err
	}
	return nil
}



