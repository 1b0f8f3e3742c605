package cmd

import (
	"os"
	"strings"

	"github.com/chronoverse/evcs/internal/dao"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type migrateFlags struct {
	config string // 配置文件路径
	types  string // 逗号分隔的实体类型列表
}

func init() {
	flags := new(migrateFlags)

	migrateCmd := &cobra.Command{
		Use:   "migrate -t <type1,type2,...> [-c config_file]",
		Short: "Create or migrate version tables. // 创建或迁移版本表。",
		Run: func(cmd *cobra.Command, args []string) {
			d, err := setupDao(flags.config)
			if err != nil {
				bootstrapLogger.Error("setup failed", zap.Error(err))
				os.Exit(1)
			}

			var g errgroup.Group
			for _, entityType := range strings.Split(flags.types, ",") {
				entityType = strings.TrimSpace(entityType)
				if entityType == "" {
					continue
				}
				entityType := entityType
				g.Go(func() error {
					if _, err := dao.NewVersionRepository(d, entityType); err != nil {
						return err
					}
					bootstrapLogger.Info("version table ready",
						zap.String("entityType", entityType),
						zap.String("table", d.VersionTable(entityType)),
					)
					return nil
				})
			}
			g.Go(func() error {
				_, err := dao.NewBranchLockRepository(d)
				return err
			})

			if err := g.Wait(); err != nil {
				bootstrapLogger.Error("migrate failed", zap.Error(err))
				os.Exit(1)
			}
		},
	}
	migrateCmd.Flags().StringVarP(&flags.config, "config", "c", "", "config file path")
	migrateCmd.Flags().StringVarP(&flags.types, "types", "t", "", "comma separated entity types")
	migrateCmd.MarkFlagRequired("types")

	rootCmd.AddCommand(migrateCmd)
}
