package mahjong

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
)

const SeatCount = 4

// NoSeat 自摸时的放铳者、尚无人立直时的 LastReach
const NoSeat = -1

// Tile 一张具体的牌，ID 全局唯一，Name 为牌种 ID
type Tile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ColorID   string `json:"colorId"`
	ColorCode string `json:"colorCode"`
	Label     string `json:"label"`
}

// NewTile 按牌种生成一张牌，suffix 用来区分同种的不同张
func NewTile(kind TileKind, suffix string) Tile {
	return Tile{
		ID:        kind.ID + "-" + suffix,
		Name:      kind.ID,
		ColorID:   kind.ColorID,
		ColorCode: kind.ColorCode,
		Label:     kind.Label,
	}
}

// BuildWall 按规则生成整副牌，顺序为牌种顺序，未洗牌
func BuildWall(rule *Rule) []Tile {
	wall := make([]Tile, 0, rule.TotalTiles())
	for _, kind := range rule.Tiles {
		for i := 1; i <= kind.Copies; i++ {
			wall = append(wall, NewTile(kind, fmt.Sprintf("%d", i)))
		}
	}
	return wall
}

// Shuffle 返回洗好的新切片，不改动入参
func Shuffle(tiles []Tile, rng *rand.Rand) []Tile {
	out := slices.Clone(tiles)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// DrawFront 从牌山顶端摸一张，返回剩余牌山
func DrawFront(wall []Tile) (Tile, []Tile, bool) {
	if len(wall) == 0 {
		return Tile{}, wall, false
	}
	return wall[0], wall[1:], true
}

// Deal 按座位轮流发牌 handSize 轮，牌不够时提前停止
func Deal(wall []Tile, handSize int) ([SeatCount][]Tile, []Tile) {
	var hands [SeatCount][]Tile
	for seat := range hands {
		hands[seat] = make([]Tile, 0, handSize+1)
	}
	for round := 0; round < handSize; round++ {
		for seat := 0; seat < SeatCount; seat++ {
			t, rest, ok := DrawFront(wall)
			if !ok {
				return hands, wall
			}
			hands[seat] = append(hands[seat], t)
			wall = rest
		}
	}
	return hands, wall
}

func sortKey(t Tile) string {
	return t.Label + "-" + t.ID
}

// SortHand 按 "label-id" 字典序排序，返回新切片
func SortHand(hand []Tile) []Tile {
	out := slices.Clone(hand)
	slices.SortStableFunc(out, func(a, b Tile) int {
		return strings.Compare(sortKey(a), sortKey(b))
	})
	return out
}

// IndexOf 找不到返回 -1
func IndexOf(hand []Tile, id string) int {
	return slices.IndexFunc(hand, func(t Tile) bool { return t.ID == id })
}

// RemoveTile 移除指定 ID 的牌，返回新切片
func RemoveTile(hand []Tile, id string) ([]Tile, Tile, bool) {
	idx := IndexOf(hand, id)
	if idx < 0 {
		return hand, Tile{}, false
	}
	out := make([]Tile, 0, len(hand)-1)
	out = append(out, hand[:idx]...)
	out = append(out, hand[idx+1:]...)
	return out, hand[idx], true
}

// WithTile 追加一张牌，返回新切片
func WithTile(hand []Tile, t Tile) []Tile {
	out := make([]Tile, 0, len(hand)+1)
	out = append(out, hand...)
	return append(out, t)
}

// TileIDs 依次取出牌 ID
func TileIDs(tiles []Tile) []string {
	ids := make([]string, len(tiles))
	for i, t := range tiles {
		ids[i] = t.ID
	}
	return ids
}

// handSignature 牌名的多重集合，用作听牌缓存的 key
func handSignature(hand []Tile) string {
	names := make([]string, len(hand))
	for i, t := range hand {
		names[i] = t.Name
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}
