package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"fieldserve-backend/models"
)

// RateResolverTestSuite defines a test suite for the rate resolver
type RateResolverTestSuite struct {
	suite.Suite
	mockLogger *MockLogger
	resolver   *RateResolver
	contract   *models.Contract
}

// SetupTest runs before each test
func (suite *RateResolverTestSuite) SetupTest() {
	suite.mockLogger = newMockLogger()
	suite.resolver = NewRateResolver(NewConfigHolidayCalendar([]string{"2026-12-25"}), testConfig(), suite.mockLogger)

	suite.contract = &models.Contract{
		ContractID: "contract-123",
		ClientID:   "client-1",
		Status:     models.ContractStatusActive,
		Rates: []models.ContractRate{
			{
				Category:            models.CategoryMaintenance,
				HourlyRate:          mustMoney("50"),
				NightMultiplier:     mustMoney("1.5"),
				WeekendMultiplier:   mustMoney("1.3"),
				HolidayMultiplier:   mustMoney("2"),
				EmergencyMultiplier: mustMoney("2"),
			},
		},
	}
}

func mustMoney(s string) models.Money {
	m, err := models.NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// weekday 10:00, not a holiday
func businessHours() time.Time {
	return time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC) // Wednesday
}

func (suite *RateResolverTestSuite) TestBaseRateDuringBusinessHours() {
	rate, err := suite.resolver.Resolve(suite.contract, models.CategoryMaintenance, businessHours(), models.PriorityNormal)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), rate.Equal(mustMoney("50").Decimal), "got %s", rate.String())
}

func (suite *RateResolverTestSuite) TestTimeMultipliersDoNotStack() {
	// Saturday 23:00 is both night and weekend; the higher night
	// multiplier wins and nothing compounds.
	saturdayNight := time.Date(2026, 9, 5, 23, 0, 0, 0, time.UTC)

	rate, err := suite.resolver.Resolve(suite.contract, models.CategoryMaintenance, saturdayNight, models.PriorityNormal)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), rate.Equal(mustMoney("75").Decimal), "got %s", rate.String())
}

func (suite *RateResolverTestSuite) TestWeekendMultiplierAlone() {
	saturdayNoon := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)

	rate, err := suite.resolver.Resolve(suite.contract, models.CategoryMaintenance, saturdayNoon, models.PriorityNormal)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), rate.Equal(mustMoney("65").Decimal), "got %s", rate.String())
}

func (suite *RateResolverTestSuite) TestHolidayMultiplier() {
	christmasNoon := time.Date(2026, 12, 25, 12, 0, 0, 0, time.UTC) // Friday

	rate, err := suite.resolver.Resolve(suite.contract, models.CategoryMaintenance, christmasNoon, models.PriorityNormal)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), rate.Equal(mustMoney("100").Decimal), "got %s", rate.String())
}

func (suite *RateResolverTestSuite) TestEmergencyAppliesOnTopOfTimeMultiplier() {
	saturdayNight := time.Date(2026, 9, 5, 23, 0, 0, 0, time.UTC)

	rate, err := suite.resolver.Resolve(suite.contract, models.CategoryMaintenance, saturdayNight, models.PriorityEmergency)

	assert.NoError(suite.T(), err)
	// max(1.5, 1.3) = 1.5, then x2 emergency: 50 * 1.5 * 2 = 150
	assert.True(suite.T(), rate.Equal(mustMoney("150").Decimal), "got %s", rate.String())
}

func (suite *RateResolverTestSuite) TestEmergencyDuringBusinessHours() {
	rate, err := suite.resolver.Resolve(suite.contract, models.CategoryMaintenance, businessHours(), models.PriorityEmergency)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), rate.Equal(mustMoney("100").Decimal), "got %s", rate.String())
}

func (suite *RateResolverTestSuite) TestSubUnitMultipliersNeverDiscount() {
	suite.contract.Rates[0].NightMultiplier = mustMoney("0.5")
	night := time.Date(2026, 9, 2, 23, 0, 0, 0, time.UTC)

	rate, err := suite.resolver.Resolve(suite.contract, models.CategoryMaintenance, night, models.PriorityNormal)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), rate.Equal(mustMoney("50").Decimal), "got %s", rate.String())
}

func (suite *RateResolverTestSuite) TestResolveIsDeterministic() {
	at := time.Date(2026, 9, 5, 23, 0, 0, 0, time.UTC)

	first, err := suite.resolver.Resolve(suite.contract, models.CategoryMaintenance, at, models.PriorityEmergency)
	assert.NoError(suite.T(), err)

	for i := 0; i < 5; i++ {
		again, err := suite.resolver.Resolve(suite.contract, models.CategoryMaintenance, at, models.PriorityEmergency)
		assert.NoError(suite.T(), err)
		assert.True(suite.T(), first.Equal(again.Decimal))
	}
}

func (suite *RateResolverTestSuite) TestNoRateForCategory() {
	_, err := suite.resolver.Resolve(suite.contract, models.CategoryInstallation, businessHours(), models.PriorityNormal)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindNoRateForCategory))
}

func (suite *RateResolverTestSuite) TestNightWrapsAroundMidnight() {
	assert.True(suite.T(), suite.resolver.isNight(time.Date(2026, 9, 2, 23, 0, 0, 0, time.UTC)))
	assert.True(suite.T(), suite.resolver.isNight(time.Date(2026, 9, 2, 3, 0, 0, 0, time.UTC)))
	assert.True(suite.T(), suite.resolver.isNight(time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC)))
	assert.False(suite.T(), suite.resolver.isNight(time.Date(2026, 9, 2, 7, 0, 0, 0, time.UTC)))
	assert.False(suite.T(), suite.resolver.isNight(time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)))
}

func TestRateResolverTestSuite(t *testing.T) {
	suite.Run(t, new(RateResolverTestSuite))
}
