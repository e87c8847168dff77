package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EngineConfig 是引擎的文件配置（YAML），字段零值表示取代码默认。
type EngineConfig struct {
	// Scoring 混合打分参数
	Scoring struct {
		Alpha       float64 `yaml:"alpha" json:"alpha"`
		SimWeight   float64 `yaml:"simWeight" json:"simWeight"`
		PriceWeight float64 `yaml:"priceWeight" json:"priceWeight"`
	} `yaml:"scoring" json:"scoring"`

	// TopK / FinalK 请求缺省条数
	TopK   int `yaml:"topK" json:"topK"`
	FinalK int `yaml:"finalK" json:"finalK"`

	// Quota 类目配额分配参数
	Quota struct {
		BoostMultiplier      int `yaml:"boostMultiplier" json:"boostMultiplier"`
		BoostFloor           int `yaml:"boostFloor" json:"boostFloor"`
		PoolCap              int `yaml:"poolCap" json:"poolCap"`
		RerankCandidateCap   int `yaml:"rerankCandidateCap" json:"rerankCandidateCap"`
		RerankCandidateFloor int `yaml:"rerankCandidateFloor" json:"rerankCandidateFloor"`
		MaxConcurrent        int `yaml:"maxConcurrent" json:"maxConcurrent"`
	} `yaml:"quota" json:"quota"`

	// Catalog 数据源配置
	Catalog struct {
		// Source 数据源类型：sqlite / file / redis
		Source string `yaml:"source" json:"source"`
		// DSN SQLite 数据库路径
		DSN string `yaml:"dsn" json:"dsn"`
		// ProductsPath / VectorsPath 文件数据源的 JSON 路径
		ProductsPath string `yaml:"productsPath" json:"productsPath"`
		VectorsPath  string `yaml:"vectorsPath" json:"vectorsPath"`
		// RedisAddr / RedisDB / ProductsKey / VectorsKey Redis 数据源
		RedisAddr   string `yaml:"redisAddr" json:"redisAddr"`
		RedisDB     int    `yaml:"redisDB" json:"redisDB"`
		ProductsKey string `yaml:"productsKey" json:"productsKey"`
		VectorsKey  string `yaml:"vectorsKey" json:"vectorsKey"`
	} `yaml:"catalog" json:"catalog"`

	// LLM 重排网关配置
	LLM struct {
		Endpoint string `yaml:"endpoint" json:"endpoint"`
		Model    string `yaml:"model" json:"model"`
		APIKey   string `yaml:"apiKey" json:"apiKey"`
		Timeout  int    `yaml:"timeout" json:"timeout"` // 秒
	} `yaml:"llm" json:"llm"`

	// Embedder 文本嵌入服务配置
	Embedder struct {
		BaseURL string `yaml:"baseUrl" json:"baseUrl"`
	} `yaml:"embedder" json:"embedder"`

	// Remote 外部召回服务配置
	Remote struct {
		BaseURL string `yaml:"baseUrl" json:"baseUrl"`
		Timeout int    `yaml:"timeout" json:"timeout"` // 秒
	} `yaml:"remote" json:"remote"`

	// Feast 在线特征配置
	Feast struct {
		Endpoint string   `yaml:"endpoint" json:"endpoint"`
		Project  string   `yaml:"project" json:"project"`
		Features []string `yaml:"features" json:"features"`
	} `yaml:"feast" json:"feast"`
}

// LoadEngineFile 从 YAML 文件加载引擎配置，随后套用环境变量覆盖。
func LoadEngineFile(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.ApplyEnv()
	return &cfg, nil
}

// LoadEnv 加载 .env 文件（存在才加载，不覆盖已有环境变量）。
// 无参时按惯例尝试 ".env"。
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv 套用 STYLEKIT_* 环境变量覆盖，优先级高于配置文件。
func (c *EngineConfig) ApplyEnv() {
	setString(&c.Catalog.Source, "STYLEKIT_CATALOG_SOURCE")
	setString(&c.Catalog.DSN, "STYLEKIT_CATALOG_DSN")
	setString(&c.Catalog.ProductsPath, "STYLEKIT_CATALOG_PRODUCTS")
	setString(&c.Catalog.VectorsPath, "STYLEKIT_CATALOG_VECTORS")
	setString(&c.Catalog.RedisAddr, "STYLEKIT_REDIS_ADDR")

	setString(&c.LLM.Endpoint, "STYLEKIT_LLM_ENDPOINT")
	setString(&c.LLM.Model, "STYLEKIT_LLM_MODEL")
	setString(&c.LLM.APIKey, "STYLEKIT_LLM_API_KEY")

	setString(&c.Embedder.BaseURL, "STYLEKIT_EMBEDDER_URL")
	setString(&c.Remote.BaseURL, "STYLEKIT_REMOTE_URL")

	setString(&c.Feast.Endpoint, "STYLEKIT_FEAST_ENDPOINT")
	setString(&c.Feast.Project, "STYLEKIT_FEAST_PROJECT")

	setFloat(&c.Scoring.Alpha, "STYLEKIT_ALPHA")
	setFloat(&c.Scoring.SimWeight, "STYLEKIT_SIM_WEIGHT")
	setFloat(&c.Scoring.PriceWeight, "STYLEKIT_PRICE_WEIGHT")
	setInt(&c.TopK, "STYLEKIT_TOP_K")
	setInt(&c.FinalK, "STYLEKIT_FINAL_K")
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, env string) {
	if v := os.Getenv(env); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
