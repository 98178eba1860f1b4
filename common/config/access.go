package config

import (
	"fmt"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var Path = "stories.yaml"

var instance *MainRepoConfig
var singletonLock = &sync.Once{}

func reloadConfig() (*MainRepoConfig, error) {
	c := NewDefaultMainConfig()

	// Write a default config if the one given doesn't exist
	_, err := os.Stat(Path)
	exists := err == nil || !os.IsNotExist(err)
	if !exists {
		fmt.Println("Generating new configuration...")
		configBytes, err := yaml.Marshal(c)
		if err != nil {
			return nil, err
		}
		if err = os.WriteFile(Path, configBytes, 0644); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(Path)
	if err != nil {
		return nil, err
	}

	pathsOrdered := make([]string, 0)
	if info.IsDir() {
		logrus.Info("Config is a directory - loading all files over top of each other")

		files, err := os.ReadDir(Path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			pathsOrdered = append(pathsOrdered, path.Join(Path, f.Name()))
		}
		sort.Strings(pathsOrdered)
	} else {
		pathsOrdered = append(pathsOrdered, Path)
	}

	for _, p := range pathsOrdered {
		logrus.Info("Loading config file: ", p)
		buffer, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if err = yaml.Unmarshal(buffer, &c); err != nil {
			return nil, err
		}
	}

	applyEnvironment(&c)
	return &c, nil
}

// applyEnvironment lets the hosting platform override the few settings it usually owns.
func applyEnvironment(c *MainRepoConfig) {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.Database.MongoUri = uri
	}
	if os.Getenv("NODE_ENV") == "development" {
		c.General.ExposeErrors = true
	}
}

func Get() *MainRepoConfig {
	if instance == nil {
		singletonLock.Do(func() {
			c, err := reloadConfig()
			if err != nil {
				logrus.Fatal(err)
			}
			instance = c
		})
	}
	return instance
}

// FromEnvironment builds a configuration without touching the filesystem, for
// invocations where the platform supplies everything through the environment.
func FromEnvironment() *MainRepoConfig {
	c := NewDefaultMainConfig()
	applyEnvironment(&c)
	return &c
}
