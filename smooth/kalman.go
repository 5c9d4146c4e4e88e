// Package smooth filters landmark positions between inference frames.
// Landmark output at 15 to 30 Hz jitters by a few pixels per frame, which a
// rig amplifies into visible bone shake.  The filters here sit between the
// inference callback and the retargeter and are entirely optional.
package smooth

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PointMeasurement is a 1x3 measured landmark position
type PointMeasurement []float64

// StateMean is a 1x6 state vector holding position and velocity per axis
type StateMean []float64

// StateCov is a 6x6 state covariance matrix
type StateCov struct {
	*mat.Dense
}

// KalmanFilter is a constant velocity Kalman filter over a single 3D point
type KalmanFilter struct {
	stdWeightPosition float64
	stdWeightVelocity float64
	motionMat         *mat.Dense
	updateMat         *mat.Dense
}

// NewKalmanFilter initializes and returns a new KalmanFilter
func NewKalmanFilter(stdWeightPosition, stdWeightVelocity float64) *KalmanFilter {

	ndim := 3
	dt := 1.0

	// motion matrix is identity with dt on the velocity columns
	motionMat := mat.NewDense(6, 6, nil)

	for i := 0; i < 6; i++ {
		motionMat.Set(i, i, 1.0)
	}

	for i := 0; i < ndim; i++ {
		motionMat.Set(i, ndim+i, dt)
	}

	// update matrix projects the state onto the measured position
	updateMat := mat.NewDense(3, 6, nil)

	for i := 0; i < 3; i++ {
		updateMat.Set(i, i, 1.0)
	}

	return &KalmanFilter{
		stdWeightPosition: stdWeightPosition,
		stdWeightVelocity: stdWeightVelocity,
		motionMat:         motionMat,
		updateMat:         updateMat,
	}
}

// Initiate initializes the state mean and covariance from the first
// measurement
func (kf *KalmanFilter) Initiate(mean StateMean, covariance *StateCov,
	measurement PointMeasurement) {

	copy(mean[:3], measurement[:3])

	for i := 3; i < 6; i++ {
		mean[i] = 0.0
	}

	std := make(StateMean, 6)

	for i := 0; i < 3; i++ {
		std[i] = 2 * kf.stdWeightPosition
		std[3+i] = 10 * kf.stdWeightVelocity
	}

	// variances on the diagonal
	for i := 0; i < 6; i++ {
		covariance.Set(i, i, std[i]*std[i])
	}
}

// Predict advances the state mean and covariance one frame under the
// constant velocity motion model
func (kf *KalmanFilter) Predict(mean StateMean, covariance *StateCov) {

	std := make(StateMean, 6)

	for i := 0; i < 3; i++ {
		std[i] = kf.stdWeightPosition
		std[3+i] = kf.stdWeightVelocity
	}

	motionCov := mat.NewDense(6, 6, nil)

	for i := 0; i < 6; i++ {
		motionCov.Set(i, i, std[i]*std[i])
	}

	meanMat := mat.NewDense(6, 1, nil)

	for i := 0; i < 6; i++ {
		meanMat.Set(i, 0, mean[i])
	}

	meanMat.Mul(kf.motionMat, meanMat)

	for i := 0; i < 6; i++ {
		mean[i] = meanMat.At(i, 0)
	}

	cov := covariance.Dense
	cov.Mul(kf.motionMat, cov)
	cov.Mul(cov, kf.motionMat.T())
	cov.Add(cov, motionCov)
}

// Update folds one measurement into the state mean and covariance
func (kf *KalmanFilter) Update(mean StateMean, covariance *StateCov,
	measurement PointMeasurement) error {

	projectedMean, projectedCov := kf.project(mean, covariance)

	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	B := mat.NewDense(6, 3, nil)
	B.Mul(covariance.Dense, kf.updateMat.T())

	var kalmanGain mat.Dense
	err := chol.SolveTo(&kalmanGain, B.T())

	if err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	// innovation (measurement residual)
	innovation := make([]float64, 3)

	for i := 0; i < 3; i++ {
		innovation[i] = measurement[i] - projectedMean[i]
	}

	innovationVec := mat.NewVecDense(3, innovation)
	tmp := mat.NewVecDense(6, nil)
	tmp.MulVec(kalmanGain.T(), innovationVec)

	for i := 0; i < 6; i++ {
		mean[i] += tmp.AtVec(i)
	}

	temp := mat.NewDense(6, 3, nil)
	temp.Mul(kalmanGain.T(), projectedCov)

	temp2 := mat.NewDense(6, 6, nil)
	temp2.Mul(temp, &kalmanGain)

	newCov := mat.NewDense(6, 6, nil)
	newCov.Sub(covariance.Dense, temp2)

	covariance.Dense = newCov

	return nil
}

// project maps the state mean and covariance into measurement space
func (kf *KalmanFilter) project(mean StateMean,
	covariance *StateCov) (PointMeasurement, *mat.SymDense) {

	// measurement noise covariance
	innovationCov := mat.NewSymDense(3, nil)

	for i := 0; i < 3; i++ {
		innovationCov.SetSym(i, i, kf.stdWeightPosition*kf.stdWeightPosition)
	}

	meanVec := mat.NewVecDense(6, nil)

	for i := 0; i < 6; i++ {
		meanVec.SetVec(i, mean[i])
	}

	projectedMeanVec := mat.NewVecDense(3, nil)
	projectedMeanVec.MulVec(kf.updateMat, meanVec)

	projectedCov := mat.NewSymDense(3, nil)
	temp := mat.NewDense(3, 6, nil)
	temp.Mul(kf.updateMat, covariance.Dense)
	temp2 := mat.NewDense(3, 3, nil)
	temp2.Mul(temp, kf.updateMat.T())

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			projectedCov.SetSym(i, j, temp2.At(i, j))
		}
	}

	projectedCov.AddSym(projectedCov, innovationCov)

	projectedMean := make(PointMeasurement, 3)

	for i := 0; i < 3; i++ {
		projectedMean[i] = projectedMeanVec.AtVec(i)
	}

	return projectedMean, projectedCov
}
