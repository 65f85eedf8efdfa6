package wire

import (
	"Hearth/internal/api"
	"Hearth/internal/api/config"
	"Hearth/internal/api/handler"
	"Hearth/internal/job"
	"Hearth/internal/pkg/consts"
	"Hearth/internal/pkg/cron"
	"Hearth/internal/pkg/kafka"
	mongoRepo "Hearth/internal/pkg/mongo"
	"Hearth/internal/pkg/redis"
	"Hearth/internal/repository"
	"Hearth/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager // 未启用 Kafka 时为 nil
	CounterSvc   service.CounterService
}

// Repositories 命令行工具只需要仓储与回算服务，不必启动路由
type Repositories struct {
	Tx         repository.TxManager
	User       repository.UserRepo
	UserFollow repository.UserFollowRepo
	Post       repository.PostRepo
	Tag        repository.TagRepo
	Action     repository.UserActionRepo
	Comment    repository.CommentRepo
	Poll       repository.PollRepo
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tx:         repository.NewTxManager(db),
		User:       repository.NewUserRepo(db),
		UserFollow: repository.NewUserFollowRepo(db),
		Post:       repository.NewPostRepository(db),
		Tag:        repository.NewTagRepository(db),
		Action:     repository.NewUserActionRepo(db),
		Comment:    repository.NewCommentRepo(db),
		Poll:       repository.NewPollRepo(db),
	}
}

// NewCounterService 回算服务，dirty 为空时只能按帖子或全量回算
func NewCounterService(repos *Repositories, dirty service.DirtySource) service.CounterService {
	return service.NewCounterService(repos.Tx, repos.Post, repos.Action, repos.Comment, dirty)
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	repos := NewRepositories(db)
	sysBoxRepo := mongoRepo.NewSysBoxRepo(mongoDB)
	dirtySet := redis.NewDirtySet(consts.PostDirtyKey)

	actionService := service.NewUserActionService(repos.Tx, repos.Action, repos.Post, repos.Comment, dirtySet)
	pollService := service.NewPollService(repos.Tx, repos.Poll, repos.Post)
	postService := service.NewPostService(repos.Tx, repos.Post, repos.Tag, repos.Action, repos.Poll, repos.User, actionService, pollService)
	commentService := service.NewCommentService(repos.Tx, repos.Comment, repos.Post, repos.User, dirtySet)
	userFollowService := service.NewUserFollowService(repos.Tx, repos.UserFollow, repos.User, repos.Post)
	sysBoxService := service.NewSysBoxService(sysBoxRepo, repos.User)
	counterService := NewCounterService(repos, dirtySet)

	handlers := &api.HandlersGroup{
		ActionHandler:     handler.NewActionHandler(actionService),
		UserFollowHandler: handler.NewUserFollowHandler(userFollowService),
		CommentHandler:    handler.NewCommentHandler(commentService),
		PollHandler:       handler.NewPollHandler(pollService),
		PostHandler:       handler.NewPostHandler(postService, counterService),
		SysBoxHandler:     handler.NewSysBoxHandler(sysBoxService),
	}

	router := api.SetupRouter(handlers, cfg)

	locker := job.NewRedisLocker()
	cronMgr := cron.NewCronManager(
		cfg.Cron,
		job.NewDirtyRecountJob(counterService, locker),
		job.NewFullRecountJob(counterService, locker, cfg.Cron.FullBatch),
	)

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, repos.Post, repos.Comment, sysBoxRepo, dirtySet)
		if err != nil {
			return nil, err
		}
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronMgr:      cronMgr,
		KafkaManager: kafkaMgr,
		CounterSvc:   counterService,
	}, nil
}
