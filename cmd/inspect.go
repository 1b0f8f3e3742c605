package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/chronoverse/evcs/global"
	"github.com/chronoverse/evcs/internal/dao"
	"github.com/chronoverse/evcs/internal/domain"
	"github.com/chronoverse/evcs/internal/service"
	"github.com/chronoverse/evcs/pkg/fileurl"
	"github.com/chronoverse/evcs/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type inspectFlags struct {
	config     string // 配置文件路径
	entityType string // 实体类型（决定版本表）
	branch     string // 分支名称
}

// inspectPayload CLI 检视负载，不预设业务字段
type inspectPayload = map[string]interface{}

// setupDao 加载配置并初始化数据访问层
func setupDao(configPath string) (*dao.Dao, error) {
	if configPath == "" {
		for _, candidate := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
			if fileurl.IsExist(candidate) {
				configPath = candidate
				break
			}
		}
	}
	if configPath == "" {
		return nil, fmt.Errorf("config file not found, use -c to specify one")
	}

	cfg, err := global.ConfigLoad(configPath)
	if err != nil {
		return nil, err
	}

	lg, err := logger.NewLogger(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Production: cfg.Log.Production,
	})
	if err != nil {
		return nil, err
	}
	global.Logger = lg

	db, err := dao.NewDBEngine(cfg.Database)
	if err != nil {
		return nil, err
	}
	return dao.New(db, lg, cfg.Database.TablePrefix), nil
}

// inspectService 构建检视用只读服务
func inspectService(d *dao.Dao, entityType string) (service.BranchableService[inspectPayload], error) {
	repo, err := dao.NewVersionRepository(d, entityType)
	if err != nil {
		return nil, err
	}
	lockRepo, err := dao.NewBranchLockRepository(d)
	if err != nil {
		return nil, err
	}
	return service.NewBranchableService[inspectPayload](entityType, repo, lockRepo, service.Options{
		Logger: global.Log(),
	}), nil
}

func printJSON(v interface{}) {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(data))
}

func init() {
	flags := new(inspectFlags)

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect version records in the store. // 检视存储中的版本记录。",
	}
	inspectCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file path")
	inspectCmd.PersistentFlags().StringVarP(&flags.entityType, "type", "t", "", "entity type (version table)")
	inspectCmd.PersistentFlags().StringVarP(&flags.branch, "branch", "b", domain.MainBranch, "branch name")
	inspectCmd.MarkPersistentFlagRequired("type")

	currentCmd := &cobra.Command{
		Use:   "current <entity-id>",
		Short: "Show the current version of an entity. // 查看实体当前版本。",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := mustService(flags)
			if err != nil {
				return
			}
			v, err := svc.GetCurrent(context.Background(), args[0], flags.branch)
			if err != nil {
				bootstrapLogger.Error("query current version failed", zap.Error(err))
				os.Exit(1)
			}
			if v == nil {
				fmt.Println("no current version")
				return
			}
			printJSON(v)
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history <entity-id>",
		Short: "Show the full version history on a branch. // 查看分支完整版本历史。",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := mustService(flags)
			if err != nil {
				return
			}
			versions, err := svc.GetHistory(context.Background(), args[0], flags.branch)
			if err != nil {
				bootstrapLogger.Error("query history failed", zap.Error(err))
				os.Exit(1)
			}
			printJSON(versions)
		},
	}

	branchesCmd := &cobra.Command{
		Use:   "branches <entity-id>",
		Short: "List branches with an open version. // 列出存在开放版本的分支。",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := mustService(flags)
			if err != nil {
				return
			}
			branches, err := svc.ListBranches(context.Background(), args[0])
			if err != nil {
				bootstrapLogger.Error("list branches failed", zap.Error(err))
				os.Exit(1)
			}
			printJSON(branches)
		},
	}

	inspectCmd.AddCommand(currentCmd, historyCmd, branchesCmd)
	rootCmd.AddCommand(inspectCmd)
}

// mustService 构建服务，失败时记录并退出
func mustService(flags *inspectFlags) (service.BranchableService[inspectPayload], error) {
	d, err := setupDao(flags.config)
	if err != nil {
		bootstrapLogger.Error("setup failed", zap.Error(err))
		os.Exit(1)
	}
	svc, err := inspectService(d, flags.entityType)
	if err != nil {
		bootstrapLogger.Error("setup service failed", zap.Error(err))
		os.Exit(1)
	}
	return svc, nil
}
