package job

import (
	"testing"
	"time"

	"du-console/service"
	"du-console/vars"
)

func TestStartCronJobRejectsBadSpec(t *testing.T) {
	profiles, err := service.BuildProfiles(vars.Default())
	if err != nil {
		t.Fatal(err)
	}
	svc := service.NewSummaryService(profiles[vars.ProfileDU], nil, nil)
	if _, err := StartCronJob("every minute", svc, time.Second); err == nil {
		t.Fatal("expected parse error")
	}
	c, err := StartCronJob("0 */5 * * * *", svc, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Stop()
	if len(c.Entries()) != 1 {
		t.Fatalf("entries = %d", len(c.Entries()))
	}
}
