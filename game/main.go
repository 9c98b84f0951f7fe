package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Hachijin-Okamoto/anyjara/common/config"
	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/Hachijin-Okamoto/anyjara/common/metrics"
	"github.com/Hachijin-Okamoto/anyjara/core/container"
	"github.com/Hachijin-Okamoto/anyjara/game/app"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/spf13/cobra"
)

// 加载配置 -> 启动监控 -> 执行子命令

var (
	configFile string
	logLevel   string

	humanSeat  int
	seed       int64
	strategies []string
	target     int
	mode       string
)

var rootCmd = &cobra.Command{
	Use:   "anyjara",
	Short: "anyjara 四人麻将规则引擎",
	Long:  `anyjara 四人麻将规则引擎：终端对局、批量策略评测、规则查看`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(configFile); err != nil {
			return err
		}
		if cmd.Flags().Changed("logLevel") {
			config.Conf.LogConf.Level = logLevel
		}
		log.InitLog(config.Conf.ID, config.Conf.LogConf.Level)
		log.Debug("配置文件: %+v", config.Conf)

		if config.Conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", config.Conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", config.Conf.MetricPort)); err != nil {
					log.Error("监控服务退出: %v", err)
				}
			}()
		}
		return nil
	},
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "在终端里和 AI 打一桌",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 日志走 stderr，避免打乱牌桌输出
		log.SetOutput(os.Stderr)
		return app.Run(context.Background(), config.Conf, func(ctx context.Context, c *container.GameContainer) error {
			opts := app.PlayOptionsFromConfig(c)
			if cmd.Flags().Changed("seat") {
				opts.HumanSeat = humanSeat
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			if cmd.Flags().Changed("strategies") {
				copy(opts.Strategies[:], strategies)
			}
			return app.Play(os.Stdin, os.Stdout, opts)(ctx, c)
		})
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "四家 AI 自动对局，统计和了率与名次",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(context.Background(), config.Conf, func(ctx context.Context, c *container.GameContainer) error {
			opts := app.BatchOptionsFromConfig(c)
			if cmd.Flags().Changed("target") {
				opts.Target = target
			}
			if cmd.Flags().Changed("mode") {
				opts.Mode = mode
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			if cmd.Flags().Changed("strategies") {
				copy(opts.Strategies[:], strategies)
			}
			return app.Batch(os.Stdout, opts)(ctx, c)
		})
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "列出规则文件中的规则",
	RunE: func(cmd *cobra.Command, args []string) error {
		rb, err := game.LoadRuleBook(config.Conf.RuleConf.File, config.Conf.RuleConf.Name, nil)
		if err != nil {
			return err
		}
		fmt.Println(app.RenderRules(rb.Rules(), rb.Current().Name))
		fmt.Println("策略:", mahjong.StrategyIDs())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "resource/application.yml", "resource file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "logLevel", "info", "log level: debug, info, warn, error")

	playCmd.Flags().IntVar(&humanSeat, "seat", 0, "human seat 0-3, -1 for all AI")
	playCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for time based")
	playCmd.Flags().StringSliceVar(&strategies, "strategies", nil, "strategy per seat, e.g. random,yaku-progress,avoid-dealin,agari-priority")

	batchCmd.Flags().IntVar(&target, "target", 100, "number of hands (games mode) or sets (sets mode)")
	batchCmd.Flags().StringVar(&mode, "mode", "games", "games | sets")
	batchCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for time based")
	batchCmd.Flags().StringSliceVar(&strategies, "strategies", nil, "strategy per seat")

	rootCmd.AddCommand(playCmd, batchCmd, rulesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
