package service

import "memeshare/internal/domain/repository"

// Services bundles the entity services that share one Store, so every
// write made through them lands in the same unit of work.
type Services struct {
	Users           *UserService
	Roles           *RoleService
	UserRoles       *UserRoleService
	Memes           *MemeService
	Tags            *TagService
	MemeTags        *MemeTagService
	MemeMetadata    *MemeMetadatumService
	UploadStats     *UploadStatService
	Comments        *CommentService
	Reactions       *ReactionService
	Collections     *CollectionService
	CollectionMemes *CollectionMemeService
	Auth            *AuthService
}

func NewServices(store *repository.Store) *Services {
	s := &Services{
		Users:           NewUserService(store),
		Roles:           NewRoleService(store),
		UserRoles:       NewUserRoleService(store),
		Memes:           NewMemeService(store),
		Tags:            NewTagService(store),
		MemeTags:        NewMemeTagService(store),
		MemeMetadata:    NewMemeMetadatumService(store),
		UploadStats:     NewUploadStatService(store),
		Comments:        NewCommentService(store),
		Reactions:       NewReactionService(store),
		Collections:     NewCollectionService(store),
		CollectionMemes: NewCollectionMemeService(store),
	}
	s.Auth = NewAuthService(s.Users, s.UserRoles)
	return s
}
