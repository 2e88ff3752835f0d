package common

const (
	RedisStreamPortfolioReport = "portfolio.report.generate"

	RedisStreamGroup    = "batch-group"
	RedisStreamConsumer = "batch-consumer"
)
