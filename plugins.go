package vette

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"plugin"
)

const pluginVarName string = "Hook"

// Plugins loads site-local audit hooks from shared objects, so a site
// can ship its own sink without rebuilding the injector.
type Plugins struct {
	path  string
	hooks []Hook
}

func (p *Plugins) isDirExists() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *Plugins) setPath() {
	p.path = "/opt/vette/plugins"
	path := os.Getenv("PLUGIN_PATH")
	if path != "" {
		p.path = path
	}
}

func (p *Plugins) lookup(name string) (Hook, error) {
	pp := path.Join(p.path, name)
	plug, err := plugin.Open(pp)
	if err != nil {
		return nil, err
	}

	symbol, err := plug.Lookup(pluginVarName)
	if err != nil {
		return nil, err
	}

	hook, ok := symbol.(Hook)
	if !ok {
		return nil, fmt.Errorf("plugin %s does not implement Hook", pp)
	}

	log.Printf("plugin loaded: %s", pp)
	return hook, nil
}

func (p *Plugins) load() error {
	p.setPath()

	if !p.isDirExists() {
		return nil
	}

	files, err := os.ReadDir(p.path)
	if err != nil {
		return err
	}

	for _, f := range files {
		if !f.Type().IsRegular() {
			continue
		}
		n := f.Name()
		if filepath.Ext(n) != ".so" {
			continue
		}

		plug, err := p.lookup(n)
		if err != nil {
			fmt.Printf("plugin load error(%s): %s\n", n, err)
			continue
		}

		plug.AfterInit()
		p.hooks = append(p.hooks, plug)
	}

	return nil
}

// LoadPlugins returns the hooks found in the plugin directory.
func LoadPlugins() ([]Hook, error) {
	p := &Plugins{}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p.hooks, nil
}
