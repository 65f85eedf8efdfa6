package main

import (
	"Hearth/internal/model"
	"Hearth/internal/pkg/database"
	"Hearth/internal/wire"
	"context"
	"fmt"
	log "log/slog"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "建表并创建唯一索引",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := database.NewGormDB(&cfg.DB)
		if err != nil {
			return err
		}
		if err = database.AutoMigrate(db); err != nil {
			return err
		}
		log.Info("Schema migrated")
		return nil
	},
}

var recountCmd = &cobra.Command{
	Use:   "recount",
	Short: "按真实记录回算帖子计数",
	Long: `不带 --post-id 时按主键分批回算所有未删除的帖子。
回算只依赖数据库，不需要 Redis 与 Kafka。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, _ := cmd.Flags().GetUint64("post-id")
		batch, _ := cmd.Flags().GetInt("batch")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := database.NewGormDB(&cfg.DB)
		if err != nil {
			return err
		}
		counterSvc := wire.NewCounterService(wire.NewRepositories(db), nil)

		ctx := context.Background()
		if postID != 0 {
			result, err := counterSvc.RecountPost(ctx, postID)
			if err != nil {
				return err
			}
			fmt.Printf("post %d: like=%d collect=%d share=%d comment=%d changed=%v\n",
				result.PostID, result.LikeCount, result.CollectCount, result.ShareCount, result.CommentCount, result.Changed)
			return nil
		}

		n, err := counterSvc.RecountAll(ctx, batch)
		if err != nil {
			return err
		}
		fmt.Printf("recounted %d posts\n", n)
		return nil
	},
}

var roleNames = map[string]int8{
	"user":      model.UserRoleNormal,
	"moderator": model.UserRoleModerator,
	"admin":     model.UserRoleAdmin,
}

var roleCmd = &cobra.Command{
	Use:   "role <username> <user|moderator|admin>",
	Short: "调整用户角色",
	Long:  `版主及以上角色可以删除他人的帖子与评论，JWT 中未携带角色时按这里的设置判断。`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, ok := roleNames[args[1]]
		if !ok {
			return fmt.Errorf("unknown role %q", args[1])
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := database.NewGormDB(&cfg.DB)
		if err != nil {
			return err
		}
		userRepo := wire.NewRepositories(db).User

		ctx := context.Background()
		user, err := userRepo.GetUserByUsername(ctx, args[0])
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("user %q not found", args[0])
		}
		if _, err = userRepo.UpdateUserRole(ctx, user.ID, role); err != nil {
			return err
		}
		log.Info("User role updated", "userID", user.ID, "role", args[1])
		return nil
	},
}
