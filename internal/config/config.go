package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"bandex/internal/collector"
	"bandex/internal/model"
	"bandex/internal/preference"
)

// EnvConfigFile names the variable holding the config path when -c is not given.
const EnvConfigFile = "BANDEX_CONFIG_FILE"

const (
	defaultLunchCron  = "0 30 10 * * 1-5"
	defaultDinnerCron = "0 30 16 * * 1-5"
	defaultLogLevel   = "warn"
)

var defaultRestaurants = []model.RestaurantID{8, 7, 9, 6}

var (
	ErrEmpty         = errors.New("config file has no documents")
	ErrNoRestaurants = errors.New("no restaurant found, check the config file")
)

// Restaurant is a restaurant to display and the color of its header.
type Restaurant struct {
	ID    model.RestaurantID
	Color Color
}

// Config holds all application configuration.
type Config struct {
	Restaurants []Restaurant
	Liked       []preference.Filter
	Disliked    []preference.Filter

	Telegram struct {
		BotToken string
		ChatID   string
	}
	Schedule struct {
		LunchCron  string
		DinnerCron string
	}
	Proxy    string
	BaseURL  string
	LogLevel string
	HTTPAddr string // daemon HTTP API, disabled when empty
}

// Default returns the configuration used when no file is available.
func Default() *Config {
	cfg := &Config{}
	for _, id := range defaultRestaurants {
		cfg.Restaurants = append(cfg.Restaurants, Restaurant{ID: id, Color: Color{Name: "blue"}})
	}
	cfg.applyDefaults()
	return cfg
}

// ResolvePath returns flagPath, or the path in BANDEX_CONFIG_FILE when it is empty.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvConfigFile)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg, err = FromContent(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// FromContent parses every YAML document in content and merges their
// bandex sections. Invalid restaurant or food entries are skipped.
func FromContent(content string) (*Config, error) {
	dec := yaml.NewDecoder(strings.NewReader(content))
	cfg := &Config{}
	docs := 0
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		docs++
		if len(doc.Content) == 0 {
			continue
		}
		if section := lookup(doc.Content[0], "bandex"); section != nil {
			cfg.merge(section)
		}
	}
	if docs == 0 {
		return nil, ErrEmpty
	}
	if len(cfg.Restaurants) == 0 {
		return nil, ErrNoRestaurants
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) merge(section *yaml.Node) {
	if list := lookup(section, "restaurants"); list != nil && list.Kind == yaml.SequenceNode {
		for _, item := range list.Content {
			if r, err := parseRestaurant(item); err == nil {
				c.Restaurants = append(c.Restaurants, r)
			}
		}
	}
	if foods := lookup(section, "foods"); foods != nil {
		c.Liked = append(c.Liked, parseFoods(lookup(foods, "liked"))...)
		c.Disliked = append(c.Disliked, parseFoods(lookup(foods, "disliked"))...)
	}
	if tg := lookup(section, "telegram"); tg != nil {
		setScalar(&c.Telegram.BotToken, lookup(tg, "bot_token"))
		setScalar(&c.Telegram.ChatID, lookup(tg, "chat_id"))
	}
	if sc := lookup(section, "schedule"); sc != nil {
		setScalar(&c.Schedule.LunchCron, lookup(sc, "lunch_cron"))
		setScalar(&c.Schedule.DinnerCron, lookup(sc, "dinner_cron"))
	}
	setScalar(&c.Proxy, lookup(section, "proxy"))
	setScalar(&c.BaseURL, lookup(section, "base_url"))
	setScalar(&c.HTTPAddr, lookup(section, "http_addr"))
}

func parseRestaurant(node *yaml.Node) (Restaurant, error) {
	if node.Kind != yaml.MappingNode {
		return Restaurant{}, errors.New("restaurant entry must be a mapping")
	}
	idNode := lookup(node, "id")
	if idNode == nil || idNode.ShortTag() != "!!int" {
		return Restaurant{}, errors.New("every restaurant needs a valid id")
	}
	id, err := strconv.Atoi(idNode.Value)
	if err != nil {
		return Restaurant{}, fmt.Errorf("restaurant id: %w", err)
	}

	color := Color{Name: "white"}
	if colorNode := lookup(node, "color"); colorNode != nil {
		if color, err = parseColorNode(colorNode); err != nil {
			return Restaurant{}, err
		}
	}
	return Restaurant{ID: model.RestaurantID(id), Color: color}, nil
}

func parseFoods(list *yaml.Node) []preference.Filter {
	if list == nil || list.Kind != yaml.SequenceNode {
		return nil
	}
	var filters []preference.Filter
	for _, item := range list.Content {
		if f, err := parseFood(item); err == nil {
			filters = append(filters, f)
		}
	}
	return filters
}

// parseFood accepts "name" or a single-key mapping "name: [ids]".
func parseFood(node *yaml.Node) (preference.Filter, error) {
	switch {
	case node.Kind == yaml.ScalarNode && node.ShortTag() == "!!str":
		return preference.NewFilter(node.Value, nil), nil
	case node.Kind == yaml.MappingNode && len(node.Content) == 2:
		key, value := node.Content[0], node.Content[1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.SequenceNode {
			return preference.Filter{}, errors.New("invalid food entry")
		}
		ids := make([]model.RestaurantID, 0, len(value.Content))
		for _, n := range value.Content {
			if n.ShortTag() != "!!int" {
				return preference.Filter{}, fmt.Errorf("food %q: invalid restaurant %q", key.Value, n.Value)
			}
			id, err := strconv.Atoi(n.Value)
			if err != nil {
				return preference.Filter{}, fmt.Errorf("food %q: %w", key.Value, err)
			}
			ids = append(ids, model.RestaurantID(id))
		}
		return preference.NewFilter(key.Value, ids), nil
	default:
		return preference.Filter{}, errors.New("invalid food entry")
	}
}

// lookup returns the value of key in a mapping node, or nil.
func lookup(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func setScalar(dst *string, node *yaml.Node) {
	if node != nil && node.Kind == yaml.ScalarNode && node.ShortTag() != "!!null" {
		*dst = node.Value
	}
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("BANDEX_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("BANDEX_LUNCH_CRON"); v != "" {
		c.Schedule.LunchCron = v
	}
	if v := os.Getenv("BANDEX_DINNER_CRON"); v != "" {
		c.Schedule.DinnerCron = v
	}
	if v := os.Getenv("BANDEX_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("BANDEX_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = collector.DefaultBaseURL
	}
	if c.Schedule.LunchCron == "" {
		c.Schedule.LunchCron = defaultLunchCron
	}
	if c.Schedule.DinnerCron == "" {
		c.Schedule.DinnerCron = defaultDinnerCron
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Evaluator builds the food annotator from the liked and disliked lists.
func (c *Config) Evaluator() preference.Evaluator {
	return preference.Evaluator{Liked: c.Liked, Disliked: c.Disliked}
}

// RestaurantIDs returns the configured restaurant codes in display order.
func (c *Config) RestaurantIDs() []model.RestaurantID {
	ids := make([]model.RestaurantID, len(c.Restaurants))
	for i, r := range c.Restaurants {
		ids[i] = r.ID
	}
	return ids
}

// ValidateDaemon checks the fields the Telegram daemon needs.
func (c *Config) ValidateDaemon() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Schedule.LunchCron == "" || c.Schedule.DinnerCron == "" {
		return fmt.Errorf("schedule.lunch_cron and schedule.dinner_cron are required")
	}
	return nil
}
