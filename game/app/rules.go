package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderRules 列出规范化后的规则，current 标记当前选中的规则
func RenderRules(rules []*mahjong.Rule, current string) string {
	var blocks []string
	for _, r := range rules {
		title := fmt.Sprintf("%s  起手 %d 张 / 和牌 %d 张  起始分 %d  每盘 %d 圈  共 %d 张",
			r.Name, r.HandSize, r.WinHandSize, r.InitialScore, r.SetCycles, r.TotalTiles())
		if r.Name == current {
			title = accentStyle.Render("* " + title)
		} else {
			title = titleStyle.Render("  " + title)
		}

		var tiles []string
		for _, k := range r.Tiles {
			tiles = append(tiles, fmt.Sprintf("%s x%d", tileText(mahjong.NewTile(k, "")), k.Copies))
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("役", "点数", "要求")
		for _, y := range r.Yakus {
			t.Row(y.Name, strconv.Itoa(y.Point), requirementsText(y.Requirements))
		}
		blocks = append(blocks, title+"\n牌种 "+strings.Join(tiles, ", ")+"\n"+t.Render())
	}
	return strings.Join(blocks, "\n\n")
}

func requirementsText(reqs []mahjong.Requirement) string {
	parts := make([]string, 0, len(reqs))
	for _, req := range reqs {
		switch {
		case req.Name != "":
			parts = append(parts, fmt.Sprintf("%s x%d", req.Name, req.Count))
		case req.Color == mahjong.ColorAny:
			parts = append(parts, fmt.Sprintf("任意同色 x%d", req.Count))
		default:
			parts = append(parts, fmt.Sprintf("%s色 x%d", req.Color, req.Count))
		}
	}
	return strings.Join(parts, " + ")
}
