package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/charmbracelet/lipgloss"
)

const logTail = 6

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	accentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e2b93b"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func tileText(t mahjong.Tile) string {
	style := lipgloss.NewStyle().Bold(true)
	if t.ColorCode != "" {
		style = style.Foreground(lipgloss.Color(t.ColorCode))
	}
	return style.Render(t.Label)
}

func tilesText(tiles []mahjong.Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = tileText(t)
	}
	return strings.Join(parts, " ")
}

// RenderView 把观察座位的 View 渲染成终端文本
func RenderView(v mahjong.View, strategies [mahjong.SeatCount]string) string {
	s := v.State
	var b strings.Builder

	header := fmt.Sprintf("规则 %s  第 %d 盘 第 %d 局  牌山 %d", s.Rule.Name, s.SetNumber, s.HandNumber, v.WallCount)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	for _, seat := range v.Seats {
		marks := ""
		if seat.IsDealer {
			marks += " 庄"
		}
		if seat.Reached {
			marks += " 立直"
		} else if seat.ReachPending {
			marks += " 立直宣言"
		}
		if seat.Tenpai {
			marks += " 听"
		}
		name := fmt.Sprintf("P%d %-8s", seat.Seat, mahjong.StrategyName(strategies[seat.Seat]))
		if seat.Seat == v.Viewer {
			name = accentStyle.Render(name)
		}
		if s.Phase != mahjong.PhaseIdle && !s.Ended() && seat.Seat == s.Turn {
			marks += " <"
		}
		fmt.Fprintf(&b, "%s %3d 分 %2d 张%s\n", name, seat.Score, seat.HandSize, marks)
		if len(seat.Discards) > 0 {
			fmt.Fprintf(&b, "    %s %s\n", mutedStyle.Render("河"), tilesText(seat.Discards))
		}
	}

	if len(v.Hand) > 0 {
		var hand []string
		for i, t := range v.Hand {
			label := fmt.Sprintf("%d:%s", i+1, tileText(t))
			if v.State.LastDrawn[v.Viewer] == t.ID {
				label = "+" + label
			}
			if !slices.Contains(v.LegalDiscards, t.ID) && len(v.LegalDiscards) > 0 {
				label = mutedStyle.Render(fmt.Sprintf("%d:%s", i+1, t.Label))
			}
			hand = append(hand, label)
		}
		fmt.Fprintf(&b, "手牌 %s\n", strings.Join(hand, " "))
	}
	if len(v.Waits) > 0 {
		fmt.Fprintf(&b, "听牌 %s\n", strings.Join(v.Waits, ", "))
	}
	for _, r := range v.Evaluation.Results {
		state := fmt.Sprintf("差 %d 张", r.Missing)
		if r.Achieved {
			state = accentStyle.Render("成立")
		}
		fmt.Fprintf(&b, "役 %s (%d 点): %s\n", r.Yaku.Name, r.Yaku.Point, state)
	}

	b.WriteString(renderResult(s))
	b.WriteString(renderLog(s.Log))
	b.WriteString(mutedStyle.Render(promptFor(v)))
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderResult(s *mahjong.GameState) string {
	switch {
	case s.Win != nil:
		w := s.Win
		how := "自摸"
		if w.Kind == mahjong.WinRon {
			how = fmt.Sprintf("荣和 P%d", w.Loser)
		}
		text := fmt.Sprintf("P%d %s %s，%s %d 点，得失 %v", w.Winner, how, tileText(w.Tile), w.Yaku.Name, w.Points, w.Deltas)
		return accentStyle.Render("和了") + " " + text + "\n"
	case s.Draw != nil:
		return accentStyle.Render("流局") + "\n"
	}
	return ""
}

func renderLog(lines []string) string {
	if len(lines) > logTail {
		lines = lines[len(lines)-logTail:]
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(mutedStyle.Render("· "+l) + "\n")
	}
	return b.String()
}

func promptFor(v mahjong.View) string {
	switch {
	case v.CanStart && v.State.SetOver:
		return "本盘结束，回车开始新的一盘，q 退出"
	case v.CanStart:
		return "回车开局，rule <名称> 切换规则，q 退出"
	case len(v.LegalDiscards) > 0 && v.CanDeclareReach:
		return "输入序号打牌，r 立直，q 退出"
	case len(v.LegalDiscards) > 0:
		return "输入序号打牌，q 退出"
	}
	return "等待其他家..."
}
