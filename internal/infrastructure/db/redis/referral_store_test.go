package redis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

// captureHook records processed commands without touching the network.
type captureHook struct {
	cmds []redis.Cmder
}

func (h *captureHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *captureHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.cmds = append(h.cmds, cmd)
		return nil
	}
}

func (h *captureHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestReferralStore_SaveWritesDurableKey(t *testing.T) {
	hook := &captureHook{}
	client := redis.NewClient(&redis.Options{})
	client.AddHook(hook)

	store := NewReferralStore(client, "club_1", "client-9")
	if err := store.Save(context.Background(), "pedro01"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if len(hook.cmds) != 1 {
		t.Fatalf("processed %d commands, want 1", len(hook.cmds))
	}
	args := hook.cmds[0].Args()
	// A plain three-argument SET carries no expiry. A captured code must
	// outlive any idle period, since attribution can happen weeks later.
	want := []interface{}{"set", "referral:club_1:client-9", "pedro01"}
	if len(args) != len(want) {
		t.Fatalf("SET args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("SET arg %d = %v, want %v", i, args[i], want[i])
		}
	}
}
