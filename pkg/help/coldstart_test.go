package help

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/topwords/models"
)

type coldstart struct {
	Commands   map[string]string `yaml:"commands"`
	ConfigFile struct {
		Example string `yaml:"example"`
	} `yaml:"config_file"`
}

func TestColdstartYAML_Parses(t *testing.T) {
	var doc coldstart
	if err := yaml.Unmarshal([]byte(ColdstartYAML), &doc); err != nil {
		t.Fatalf("ColdstartYAML is not valid YAML: %v", err)
	}
	if len(doc.Commands) == 0 {
		t.Fatal("ColdstartYAML has no commands")
	}
}

func TestColdstartYAML_ConfigExampleIsValid(t *testing.T) {
	var doc coldstart
	if err := yaml.Unmarshal([]byte(ColdstartYAML), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	config := models.DefaultConfig()
	if err := yaml.Unmarshal([]byte(doc.ConfigFile.Example), config); err != nil {
		t.Fatalf("config example does not parse: %v", err)
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("config example does not validate: %v", err)
	}
	if config.TaskTimeout != 30*time.Second {
		t.Errorf("TaskTimeout = %v, want 30s", config.TaskTimeout)
	}
	if config.TopN != 10 || config.Workers != 4 || config.MaxDepth != 10 {
		t.Errorf("config = %+v", config)
	}
}
