package app

import (
	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/data/repos"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type Repos struct {
	User      repos.UserRepo
	Badge     repos.BadgeRepo
	Assertion repos.AssertionRepo
	Comment   repos.CommentRepo
	Like      repos.LikeRepo
	Favor     repos.FavorRepo
	Feedback  repos.FeedbackRepo
	Search    repos.SearchRepo
}

func wireRepos(store docstore.Store, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(store, log),
		Badge:     repos.NewBadgeRepo(store, log),
		Assertion: repos.NewAssertionRepo(store, log),
		Comment:   repos.NewCommentRepo(store, log),
		Like:      repos.NewLikeRepo(store, log),
		Favor:     repos.NewFavorRepo(store, log),
		Feedback:  repos.NewFeedbackRepo(store, log),
		Search:    repos.NewSearchRepo(store, log),
	}
}
