package command

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mosaicnetworks/murmur/src/version"
)

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	VersionCmd.SetOutput(&buf)
	VersionCmd.Run(VersionCmd, nil)

	if strings.TrimSpace(buf.String()) != version.Version {
		t.Fatalf("version should print %s, not %q", version.Version, buf.String())
	}
}

func TestSampleCmd(t *testing.T) {
	cmd := NewSampleCmd()

	var buf bytes.Buffer
	cmd.SetOutput(&buf)
	cmd.SetArgs([]string{"--node-id", "n2", "--node-ids", "n1,n2"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var env struct {
		Src  string `json:"src"`
		Dest string `json:"dest"`
		Body struct {
			Type    string   `json:"type"`
			MsgID   int      `json:"msg_id"`
			NodeID  string   `json:"node_id"`
			NodeIDs []string `json:"node_ids"`
		} `json:"body"`
	}
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("sample output is not JSON: %v\n%s", err, buf.String())
	}

	if env.Dest != "n2" || env.Body.Type != "init" || env.Body.NodeID != "n2" || len(env.Body.NodeIDs) != 2 {
		t.Fatalf("unexpected sample %+v", env)
	}
}

func TestDefaultCLIConfig(t *testing.T) {
	conf := NewDefaultCLIConfig()

	if conf.Murmur.RetryInterval <= 0 || conf.Murmur.RetryWindow <= 0 {
		t.Fatalf("defaults should enable retries: %+v", conf.Murmur)
	}
}
