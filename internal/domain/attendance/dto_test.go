package attendance

import (
	"math"
	"strings"
	"testing"

	"github.com/absensi-app/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCheckInRequest_Validate(t *testing.T) {
	req := CheckInRequest{Location: "-6.2, 106.8"}
	assert.NoError(t, req.Validate())

	req = CheckInRequest{Location: "1,1", Kehadiran: strPtr("hadir")}
	assert.NoError(t, req.Validate())

	req = CheckInRequest{Location: "", Kehadiran: strPtr("izin")}
	err := req.Validate()
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "location")
	assert.Contains(t, m, "kehadiran")

	req = CheckInRequest{Location: "somewhere"}
	assert.Error(t, req.Validate())
}

func TestListAttendanceFilter_Validate(t *testing.T) {
	f := ListAttendanceFilter{}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 10, f.PageSize)

	f = ListAttendanceFilter{PageSize: 500}
	assert.Error(t, f.Validate())

	f = ListAttendanceFilter{StartDate: strPtr("2024/12/01"), ClockIn: strPtr("7am")}
	err := f.Validate()
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "start_date")
	assert.Contains(t, verrs.ToMap(), "jam_masuk")

	f = ListAttendanceFilter{Unpaged: true}
	require.NoError(t, f.Validate())
	assert.Equal(t, 0, f.PageSize)
}

func TestCheckInRequest_LocationLength(t *testing.T) {
	// Parses as a coordinate but does not fit the column.
	long := "-6.2" + strings.Repeat("0", 60) + "," + "106.8" + strings.Repeat("0", 60)

	req := CheckInRequest{Location: long}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Equal(t, "location must not exceed 100 characters", verrs.ToMap()["location"])

	out := CheckOutRequest{ID: "att-1", Location: long}
	require.ErrorAs(t, out.Validate(), &verrs)
	assert.Equal(t, "location must not exceed 100 characters", verrs.ToMap()["location"])

	fits := "-6.2" + strings.Repeat("0", 40) + "," + "106.8" + strings.Repeat("0", 40)
	req = CheckInRequest{Location: fits}
	assert.NoError(t, req.Validate())
}

func TestCheckInRequest_NonFiniteLocation(t *testing.T) {
	for _, loc := range []string{"NaN,NaN", "NaN,106.8", "-6.2,Inf", "-Inf,0"} {
		req := CheckInRequest{Location: loc}
		var verrs validator.ValidationErrors
		require.ErrorAs(t, req.Validate(), &verrs, loc)
		assert.Contains(t, verrs.ToMap(), "location", loc)

		out := CheckOutRequest{ID: "att-1", Location: loc}
		assert.Error(t, out.Validate(), loc)
	}
}

func TestCheckLocationRequest_Validate(t *testing.T) {
	req := CheckLocationRequest{Latitude: -6.2, Longitude: 106.8}
	assert.NoError(t, req.Validate())

	req = CheckLocationRequest{Latitude: math.NaN(), Longitude: math.Inf(1)}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "latitude")
	assert.Contains(t, verrs.ToMap(), "longitude")

	req = CheckLocationRequest{Latitude: math.Inf(-1), Longitude: math.NaN()}
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Len(t, verrs, 2)
}

func TestListAttendanceFilter_UserID(t *testing.T) {
	f := ListAttendanceFilter{UserID: strPtr("not-a-uuid")}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, f.Validate(), &verrs)
	assert.Equal(t, "user_id must be a valid UUID", verrs.ToMap()["user_id"])

	f = ListAttendanceFilter{UserID: strPtr("0193f1a0-0000-7000-8000-000000000001")}
	assert.NoError(t, f.Validate())
}
