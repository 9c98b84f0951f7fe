package game

// LoadInfo 进程负载快照
type LoadInfo struct {
	TableCount int     // 当前牌桌数（批量评测时为 1）
	HandCount  int     // 已结束的局数
	CPUUsage   float64 // 进程 CPU 使用率，多核时可能超过 100
	MemUsage   float64 // 进程占系统内存的百分比
	RSS        uint64  // 常驻内存，字节
}

// CalculateLoad 综合负载评分，越小越空闲
// 权重：CPU 50%、内存 30%、牌桌数 20%
func (li *LoadInfo) CalculateLoad() float64 {
	cpu := li.CPUUsage
	if cpu > 100 {
		cpu = 100
	}
	// 牌桌数按 100 归一化
	tables := float64(li.TableCount) / 100.0
	if tables > 1.0 {
		tables = 1.0
	}
	return cpu*0.5 + li.MemUsage*0.3 + tables*100*0.2
}
