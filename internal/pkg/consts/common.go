package consts

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// 评论树深度遍历的上限
const MaxCommentDepth = 10

const (
	MinPollOptions = 2
	MaxPollOptions = 5
)

// 列表摘要长度，按字符计
const ExcerptRunes = 120
