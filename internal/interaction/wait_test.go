// internal/interaction/wait_test.go
package interaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitVisible(t *testing.T) {
	fx := newFixture(t, time.Second, 4)
	fx.driver.script("WaitFor", fail(errTimeout), pass())

	require.NoError(t, fx.in.WaitVisible(context.Background(), ID("dashboard")))
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, fx.driver.slices)
}

func TestWaitNotVisible_Failure(t *testing.T) {
	fx := newFixture(t, time.Second, 2)
	fx.driver.script("WaitFor", fail(errTimeout))

	err := fx.in.WaitNotVisible(context.Background(), CSS(".spinner"))

	var ierr *Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, OpWaitNotVisible, ierr.Op)
	assert.Equal(t, 2, ierr.Attempts)
	assert.Contains(t, err.Error(), "still visible")
	assert.ErrorIs(t, err, ErrConditionNotMet)
	assert.Equal(t, time.Second, fx.elapsed())
}

func TestSingleWaits(t *testing.T) {
	tests := []struct {
		name string
		wait func(*Interactor, context.Context, Locator, ...CallOption) error
		cond string
		msg  string
	}{
		{name: "present", wait: (*Interactor).WaitPresent, cond: "present", msg: "not present"},
		{name: "clickable", wait: (*Interactor).WaitClickable, cond: "clickable", msg: "not clickable"},
		{name: "absent", wait: (*Interactor).WaitAbsent, cond: "absent", msg: "still present"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, 2*time.Second, 5)
			fx.driver.script("WaitFor", fail(errTimeout))

			err := tt.wait(fx.in, context.Background(), ID("thing"))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, []string{"WaitFor(" + tt.cond + ", thing)"}, fx.driver.Calls())
			assert.Equal(t, []time.Duration{2 * time.Second}, fx.driver.slices)
		})
	}
}

func TestWaitURLEquals(t *testing.T) {
	fx := newFixture(t, time.Second, 3)
	fx.driver.script("CurrentURL",
		returns("http://app/login"), returns("http://app/login"), returns("http://app/home"))

	require.NoError(t, fx.in.WaitURLEquals(context.Background(), "http://app/home"))
	assert.Equal(t, 3, fx.driver.count("CurrentURL"))
	assert.Equal(t, 200*time.Millisecond, fx.elapsed())
}

func TestWaitURLContains_TimesOut(t *testing.T) {
	fx := newFixture(t, time.Second, 3)
	fx.driver.script("CurrentURL", returns("http://app/login"))

	err := fx.in.WaitURLContains(context.Background(), "/home")

	var ierr *Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, OpWaitURLContains, ierr.Op)
	assert.Equal(t, 11, ierr.Attempts, "polls at 0ms..1000ms")
	assert.ErrorIs(t, err, ErrConditionNotMet)
	assert.Contains(t, err.Error(), `url to contain "/home"`)
	assert.Contains(t, err.Error(), "current page")
	assert.Equal(t, time.Second, fx.elapsed())
}

func TestWaitTextPresent(t *testing.T) {
	fx := newFixture(t, time.Second, 3)
	fx.driver.script("Text", fail(errStale), returns("You logged into a secure area!"))

	err := fx.in.WaitTextPresent(context.Background(), ID("flash"), "secure area")

	require.NoError(t, err)
	assert.Equal(t, 2, fx.driver.count("Text"))
}

func TestWaitTextPresent_ReportsLastError(t *testing.T) {
	fx := newFixture(t, 300*time.Millisecond, 3)
	fx.driver.script("Text", fail(errStale))

	err := fx.in.WaitTextPresent(context.Background(), ID("flash"), "secure area")

	require.Error(t, err)
	assert.Contains(t, err.Error(), errStale.Error())
	assert.ErrorIs(t, err, ErrConditionNotMet)
}
