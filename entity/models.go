package entity

// Models lists every table the service migrates.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&FriendRequest{},
		&Friendship{},
		&ChatRoom{},
		&UserChatRoom{},
	}
}
