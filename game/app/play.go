package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/Hachijin-Okamoto/anyjara/core/container"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
)

// PlayOptions 命令行对交互牌桌的覆盖
type PlayOptions struct {
	HumanSeat  int
	Strategies [mahjong.SeatCount]string
	Seed       int64
}

// PlayOptionsFromConfig 取配置文件中的牌桌设置
func PlayOptionsFromConfig(c *container.GameContainer) PlayOptions {
	conf := c.Conf.TableConf
	opts := PlayOptions{HumanSeat: conf.HumanSeat, Seed: conf.Seed}
	copy(opts.Strategies[:], conf.Strategies)
	return opts
}

// Play 终端交互牌桌，从 in 读命令，把每次状态变化渲染到 out
func Play(in io.Reader, out io.Writer, opts PlayOptions) ServeFunc {
	return func(ctx context.Context, c *container.GameContainer) error {
		conf := c.Conf.TableConf
		table, err := c.Tables.CreateTable(game.TableOptions{
			Rule:         c.Rules.Current(),
			Strategies:   opts.Strategies,
			HumanSeat:    opts.HumanSeat,
			DrawDelay:    time.Duration(conf.DrawDelayMs) * time.Millisecond,
			DiscardDelay: time.Duration(conf.DiscardDelayMs) * time.Millisecond,
			AutoReach:    conf.AutoReach,
			Seed:         opts.Seed,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := c.Tables.DeleteTable(table.ID); err != nil {
				log.Warn("删除牌桌失败: %v", err)
			}
		}()

		var outMu sync.Mutex
		strategies := table.Strategies()
		table.Subscribe(func(v mahjong.View) {
			outMu.Lock()
			defer outMu.Unlock()
			fmt.Fprintln(out, RenderView(v, strategies))
		})

		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				quit, err := handleCommand(c, table, strings.TrimSpace(line))
				if err != nil {
					outMu.Lock()
					fmt.Fprintln(out, err)
					outMu.Unlock()
				}
				if quit {
					return nil
				}
			}
		}
	}
}

// handleCommand 空行开局，数字按手牌序号打牌，r 立直，rule 切换规则，q 退出
func handleCommand(c *container.GameContainer, table *game.Table, cmd string) (bool, error) {
	switch {
	case cmd == "q" || cmd == "quit":
		return true, nil
	case cmd == "" || cmd == "s" || cmd == "start":
		return false, table.StartHand()
	case cmd == "r" || cmd == "reach":
		return false, table.DeclareReach()
	case strings.HasPrefix(cmd, "rule "):
		name := strings.TrimSpace(strings.TrimPrefix(cmd, "rule "))
		rule := mahjong.FindRule(c.Rules.Rules(), name)
		if rule.Name != name {
			return false, fmt.Errorf("没有名为 %s 的规则", name)
		}
		return false, table.ChangeRule(rule)
	}

	n, err := strconv.Atoi(cmd)
	if err != nil {
		return false, fmt.Errorf("无法识别的命令: %s", cmd)
	}
	hand := table.View().Hand
	if n < 1 || n > len(hand) {
		return false, fmt.Errorf("序号超出范围: %d", n)
	}
	return false, table.Discard(hand[n-1].ID)
}
