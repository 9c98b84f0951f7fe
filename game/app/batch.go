package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/core/container"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/entity"
	"github.com/Hachijin-Okamoto/anyjara/runtime/batch"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// BatchOptionsFromConfig 取配置文件中的评测设置，规则用当前选中的规则
func BatchOptionsFromConfig(c *container.GameContainer) batch.Options {
	conf := c.Conf.BatchConf
	opts := batch.Options{
		Rule:        c.Rules.Current(),
		Mode:        conf.Mode,
		Target:      conf.Target,
		Seed:        conf.Seed,
		StepDelay:   time.Duration(conf.StepDelayMs) * time.Millisecond,
		ReportEvery: conf.ReportEvery,
		AutoReach:   conf.AutoReach,
	}
	copy(opts.Strategies[:], conf.Strategies)
	return opts
}

// Batch 跑一次批量评测，结束或被取消后把汇总写到 out
func Batch(out io.Writer, opts batch.Options) ServeFunc {
	return func(ctx context.Context, c *container.GameContainer) error {
		if _, err := c.Harness.Start(ctx, opts); err != nil {
			return err
		}
		// ctx 取消时评测自己收尾，这里等它保存完结果
		record, err := c.Harness.Wait(context.Background())
		if record != nil {
			fmt.Fprintln(out, RenderSummary(record))
		}
		return err
	}
}

// RenderSummary 每个座位的和了、得分和名次分布
func RenderSummary(r *entity.EvaluationRecord) string {
	header := fmt.Sprintf("评测 %s  规则 %s  模式 %s  状态 %s\n局数 %d  盘数 %d  流局 %d  用时 %s",
		r.RunID, r.RuleName, r.Mode, r.Status, r.Games, r.Sets, r.Draws,
		r.EndTime.Sub(r.StartTime).Round(time.Millisecond))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("座位", "策略", "和了", "和了率", "得失分", "一位", "二位", "三位", "四位")
	for seat := 0; seat < mahjong.SeatCount; seat++ {
		strategy := ""
		if seat < len(r.Strategies) {
			strategy = mahjong.StrategyName(r.Strategies[seat])
		}
		rate := "-"
		if r.Games > 0 {
			rate = fmt.Sprintf("%.1f%%", float64(r.Wins[seat])*100/float64(r.Games))
		}
		t.Row(
			fmt.Sprintf("P%d", seat),
			strategy,
			strconv.Itoa(r.Wins[seat]),
			rate,
			strconv.Itoa(r.Scores[seat]),
			strconv.Itoa(r.Rankings[seat][0]),
			strconv.Itoa(r.Rankings[seat][1]),
			strconv.Itoa(r.Rankings[seat][2]),
			strconv.Itoa(r.Rankings[seat][3]),
		)
	}
	return titleStyle.Render(header) + "\n" + t.Render()
}
