package service

// limitRule 单个列表接口的默认条数与上限
type limitRule struct {
	def, max int
}

var (
	eventsLimit     = limitRule{def: 50, max: 200}
	matchesLimit    = limitRule{def: 100, max: 500}
	playersLimit    = limitRule{def: 20, max: 100}
	teamsLimit      = limitRule{def: 20, max: 50}
	highlightsLimit = limitRule{def: 12, max: 100}
)

// overlay 中的集锦固定取前 12 条
const overlayHighlights = 12

// clamp 未传或非正数取默认值，超过上限取上限
func (l limitRule) clamp(n int) int {
	if n <= 0 {
		return l.def
	}
	if n > l.max {
		return l.max
	}
	return n
}
