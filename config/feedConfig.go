package config

import "github.com/Xushengqwer/go-common/config"

type FeedConfig struct {
	ZapConfig       config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig   config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig    config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig    config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	MySQLConfig     MySQLConfig          `mapstructure:"mysqlConfig" json:"mysqlConfig" yaml:"mysqlConfig"`
	RedisConfig     RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	KafkaConfig     KafkaConfig          `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	ESConfig        ESConfig             `mapstructure:"esConfig" json:"esConfig" yaml:"esConfig"`
	CacheConfig     CacheConfig          `mapstructure:"cacheConfig" json:"cacheConfig" yaml:"cacheConfig"`
	StatsSyncConfig StatsSyncConfig      `mapstructure:"statsSyncConfig" json:"statsSyncConfig" yaml:"statsSyncConfig"`
}
