package types_test

import (
	"encoding/json"
	"testing"
	"time"

	types "github.com/okian/emochain/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntryWireNames(t *testing.T) {
	Convey("Given a readiness entry", t, func() {
		entry := types.Entry{
			Rank:            1,
			ValidatorID:     "validator-7",
			ReadinessScore:  85,
			ConsensusReady:  true,
			EmotionCategory: "focused",
			UpdatedAt:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		}

		Convey("When it is encoded", func() {
			data, err := json.Marshal(entry)
			So(err, ShouldBeNil)

			var fields map[string]any
			So(json.Unmarshal(data, &fields), ShouldBeNil)

			Convey("Then clients see snake_case names", func() {
				for _, k := range []string{"rank", "validator_id", "readiness_score", "consensus_ready", "emotion_category", "updated_at"} {
					So(fields, ShouldContainKey, k)
				}
				So(fields["updated_at"], ShouldEqual, "2026-05-01T00:00:00Z")
			})
		})
	})
}

func TestReadyList(t *testing.T) {
	Convey("An empty list encodes validators as an empty array", t, func() {
		data, err := json.Marshal(types.ReadyList{Validators: []types.Entry{}})
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"validators":[]`)
	})
}

func TestValidatorReadinessFlattensEntry(t *testing.T) {
	Convey("The rank fields sit next to the decision fields", t, func() {
		data, err := json.Marshal(types.ValidatorReadiness{Entry: types.Entry{Rank: 3, ValidatorID: "v"}})
		So(err, ShouldBeNil)
		So(string(data), ShouldStartWith, `{"rank":3,"validator_id":"v"`)
	})
}
