// Package model holds the GORM table definitions of the persistence layer.
package model

// All returns every model in dependency order, for auto-migration.
func All() []any {
	return []any{
		&AccountModel{},
		&RefreshTokenModel{},
		&ProfileModel{},
		&LocationModel{},
		&ImageModel{},
		&SwipeModel{},
		&ChatModel{},
		&MessageModel{},
	}
}
