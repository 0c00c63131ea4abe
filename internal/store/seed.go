package store

import (
	"context"
	"fmt"

	"github.com/joelwehr/ppclog/internal/models"
)

type seedSection struct {
	name     string
	itemType models.ChecklistItemType
	items    []string
}

type seedTemplate struct {
	name        string
	description string
	sections    []seedSection
}

// seedDefaultTemplates populates the built-in checklist set on a fresh
// database. Seeded rows go through the normal save path so they carry
// New status and get pushed like user-created templates.
func (s *Store) seedDefaultTemplates(ctx context.Context) error {
	n, err := s.countTemplates(ctx)
	if err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if n > 0 {
		return nil
	}

	s.logger.Info("Seeding default checklist templates")

	for order, def := range defaultTemplates {
		desc := def.description
		template := &models.ChecklistTemplate{
			Name:         def.name,
			Description:  &desc,
			DisplayOrder: int64(order),
			IsDefault:    true,
			IsActive:     true,
		}
		if err := s.SaveChecklistTemplate(ctx, template); err != nil {
			return fmt.Errorf("seed template %q: %w", def.name, err)
		}

		itemOrder := int64(0)
		for _, section := range def.sections {
			for _, text := range section.items {
				sec := section.name
				item := &models.ChecklistTemplateItem{
					TemplateID:   template.ID,
					Section:      &sec,
					Description:  text,
					DisplayOrder: itemOrder,
					ItemType:     section.itemType,
				}
				if err := s.SaveChecklistTemplateItem(ctx, item); err != nil {
					return fmt.Errorf("seed template %q items: %w", def.name, err)
				}
				itemOrder++
			}
		}
	}

	return nil
}

var defaultTemplates = []seedTemplate{
	{
		name:        "Pre-Flight (Detailed)",
		description: "Complete preflight inspection - all items",
		sections: []seedSection{
			{"Nose Wheel & Front", models.ItemCheck, []string{
				"Check nose wheel security on axle with nut secure",
				"Wheel fork and pivot bolt secure",
				"Brake mechanism secure and operating",
				"Centering springs OK, steering arm secure",
				"Wheel and steering turn freely",
			}},
			{"Left Steering", models.ItemCheck, []string{
				"Foot bar is secure and pivots freely",
				"Steering line in good order",
				"Pulleys in good order",
				"Trim system secure, moves freely, in proper takeoff position",
			}},
			{"Instruments", models.ItemCheck, []string{
				"Instrument pod is secure",
				"All instruments and switches secure",
				"Switches in safe position before engine startup",
			}},
			{"Ground Steering", models.ItemCheck, []string{
				"Check for proper range of steering",
				"Check all nuts and bolts",
			}},
			{"Front Seats", models.ItemCheck, []string{
				"Front seat securely fastened to airframe",
				"Seat belts securely fastened to airframe",
			}},
			{"Rear Seats", models.ItemCheck, []string{
				"Rear seat securely fastened to airframe",
				"Seat belts securely fastened to airframe",
			}},
			{"Left Riser", models.ItemCheck, []string{
				"Riser connections to airframe secure, brackets secure",
				"Links finger tight plus no more than 1/4 turn (Mallion Rapide links only)",
				"Steering line properly routed and in good condition",
				"Pulley in good condition",
				"Riser in good condition and properly connected (no twists)",
			}},
			{"Left Suspension", models.ItemCheck, []string{
				"All suspension pivots smooth and free from excessive wear",
				"Springs, shocks and tubes in good order",
			}},
			{"Left Wheel", models.ItemCheck, []string{
				"Tire in good condition and properly inflated",
				"Axle secure, axle nut secure",
			}},
			{"Left Side Components", models.ItemCheck, []string{
				"Battery mount secure, battery secure and free of leaks",
				"Radiator mounts secure, radiator free of leaks, drain cock closed",
				"Left side exhaust, exhaust springs, sparkplugs, plug caps and plug wires OK",
				"Left side prop cage tubes secure, bolts secure",
			}},
			{"Propeller & Gearbox", models.ItemCheck, []string{
				"Check gearbox for leaks",
				"Move prop to check for normal gearbox backlash",
				"Examine prop for damage, cleanliness, distortion",
			}},
			{"Right Engine", models.ItemCheck, []string{
				"Carburetor and mounting secure",
				"Check carb boots for cracks",
				"Throttle and choke linkages secure",
				"Fuel lines secure and in good condition",
			}},
			{"Right Suspension", models.ItemCheck, []string{
				"All suspension pivots smooth and free from excessive wear",
				"Springs, shocks and tubes in good order",
			}},
			{"Right Wheel", models.ItemCheck, []string{
				"Tire in good condition and properly inflated",
				"Axle secure, axle nut secure",
			}},
			{"Coolant System", models.ItemCheck, []string{
				"Coolant bottle secure, filled to proper level",
				"Lines secure, no leaks, cap secure",
				"Header tank secure, cap secure",
				"Lines and clamps secure, no leaks",
			}},
			{"Oil & Accessories", models.ItemCheck, []string{
				"Oil bottle secure, filled to proper level",
				"Lines secure, no leaks, cap secure",
				"Strobe light securely mounted, wiring in good order, lens secure",
			}},
			{"Fuel System", models.ItemCheck, []string{
				"Fuel tank - check for leaks, secure mountings",
				"Check fuel gage for fuel level and any leaks",
				"Check fuel tank vent for security and lack of blockage or leaks",
				"Check fuel filter for any contamination",
			}},
			{"Gascolator", models.ItemCheck, []string{
				"Visually check gascolator securely connected to airframe and fuel lines",
				"Draw sample, check for water, correct fuel color, dirt or contamination",
			}},
			{"Controls", models.ItemCheck, []string{
				"Rear throttle control and linkage - proper action and security",
				"Throttle controls assembly secure to airframe",
				"Linkages secure, cables and housings in good condition",
				"Friction set correctly, throttle levers move smoothly through full range",
			}},
			{"Right Riser", models.ItemCheck, []string{
				"Riser connections to airframe secure, brackets secure",
				"Links finger tight plus no more than 1/4 turn",
				"Steering line properly routed and in good condition",
				"Pulley in good condition",
				"Riser in good condition and properly connected (no twists)",
			}},
			{"Right Steering", models.ItemCheck, []string{
				"Foot bar is secure and pivots freely",
				"Steering line in good order",
				"Pulleys in good order",
				"Trim system secure, moves freely, in proper takeoff position",
			}},
		},
	},
	{
		name:        "Pre-Flight (Quick)",
		description: "Abbreviated preflight checklist",
		sections: []seedSection{
			{"Front", models.ItemCheck, []string{
				"Nose wheel, brake and ground steering",
				"Left hand flight steering foot bar, steering line, pulley and trim system",
				"Instrument pod, instruments, switches, displays",
				"Ground steering controls",
				"Front seat & belts left hand side",
			}},
			{"Left Side", models.ItemCheck, []string{
				"Rear seat and belts left hand side",
				"Left side riser connections, steering line, pulley, links and riser",
				"Rear suspension and pivots left side",
				"Wheel, tire and axle left side",
				"Battery, radiator and radiator mounts",
				"Left side of engine",
				"Left side prop cage",
			}},
			{"Center", models.ItemCheck, []string{
				"Propeller and gearbox",
				"Right hand side of engine",
			}},
			{"Right Side", models.ItemCheck, []string{
				"Right hand suspension",
				"Wheel, tire and axle right side",
				"Coolant overflow bottle and header tank",
				"Strobe light",
				"Oil tank",
				"Rear throttle",
				"Rear seat and belts right hand side",
				"Right side riser connections, steering line, pulley, links and riser",
				"Front seat & belts right hand side",
				"Throttle and choke controls",
				"Right hand flight steering foot bar, steering line, pulley and trim system",
				"Nose wheel, right side",
			}},
		},
	},
	{
		name:        "Engine Start",
		description: "Engine start procedure",
		sections: []seedSection{
			{"Engine Start", models.ItemCheck, []string{
				"Remove prop and carb covers and exhaust plug. Store in saddle bag",
				"Check oil (Injection and Rotary Valve)",
				"Check fuel, all caps secure. Prime until fuel gets to carb and two-three more squirts",
				"Mags ON, EIS OFF",
				`Yell "Clear Prop" and look to make sure all is clear before starting`,
				"Turn Key to start. Prime as needed",
				"Once running smoothly, turn on EIS",
			}},
		},
	},
	{
		name:        "Warm-Up / Run-Up",
		description: "Engine warm-up and run-up checks",
		sections: []seedSection{
			{"Warm-Up", models.ItemCheck, []string{
				"Bring RPM up to 3000-3500rpm range and run for minimum of 5 minutes",
				"Verify voltage is 13.5-14.5 volts",
				"Check water temperature gauge",
				"Mag Check - Turn off one mag at a time to verify both mags are operational",
				"Full Power run up - Secure plane against solid object, water temp 140F or higher",
				"Check all engine instruments in green range",
			}},
		},
	},
	{
		name:        "Wing Layout",
		description: "Wing deployment and setup",
		sections: []seedSection{
			{"Wing Setup", models.ItemCheck, []string{
				"Set up into wind based on runway orientation",
				"Remove bag from plane, place bag behind plane label facing away from rear",
				"Remove chute from bag and lay out using inverted or stacked method",
				"After removing line socks, check for tangled line or line overs. Clean lines",
				"Going back to riser attachment points make sure there are no twists in the risers",
				"Check that steering line and risers are taut, not wrapped over anything",
				"Steering line should be above the cleat not hanging below",
				"Once cleared repeat for other side. Stow line socks and chute bag",
				"Double check to make sure all lines are clear on both sides",
				"Before getting into plane make sure there is no slack in steering lines and risers",
			}},
		},
	},
	{
		name:        "Before Takeoff",
		description: "Pre-takeoff final checks",
		sections: []seedSection{
			{"Before Takeoff", models.ItemCheck, []string{
				"Conduct preflight passenger briefing and cover emergency procedures",
				"Make sure passenger seat belt and helmet are secure and connected to intercom",
				"Get in and secure your seat belt and helmet, plug into intercom",
				"Verify wind direction and speed has not changed",
				"Ready to start: Mags on, EIS off, Look back and verify prop area clear",
				`Yell "Clear Prop" and start`,
				"Once started and running smoothly turn on EIS, verify engine is up to temp",
				"Final check: all instruments normal, controls free and correct",
				"Take off into wind",
			}},
		},
	},
	{
		name:        "In-Flight Checks",
		description: "Periodic in-flight monitoring",
		sections: []seedSection{
			{"In-Flight", models.ItemCheck, []string{
				"Engine instruments all in green range",
				"Water temperature normal",
				"Oil pressure normal",
				"RPM set for cruise",
				"Fuel level check",
				"Altitude and heading check",
				"Wind conditions assessment",
				"Traffic scan - look for other aircraft",
				"Ground reference check - know your position",
			}},
		},
	},
	{
		name:        "Pre-Landing",
		description: "Approach and landing preparation",
		sections: []seedSection{
			{"Pre-Landing", models.ItemCheck, []string{
				"Determine wind direction and landing runway",
				"Plan approach pattern",
				"Check for traffic in pattern and on runway",
				"Reduce throttle for descent",
				"Establish stable approach speed",
				"Verify landing area is clear of obstacles",
				"Passenger briefed on landing",
			}},
		},
	},
	{
		name:        "Landing",
		description: "Landing and shutdown on the ground",
		sections: []seedSection{
			{"Landing", models.ItemCheck, []string{
				"Final approach aligned with runway",
				"Touchdown - flare and reduce power",
				"Roll out - maintain directional control",
				"Clear runway when safe",
				"Reduce RPM to idle",
				"EIS off, then Mags off",
				"Remove key",
			}},
		},
	},
	{
		name:        "Post Flight",
		description: "Post-flight shutdown and securing",
		sections: []seedSection{
			{"Shutdown", models.ItemCheck, []string{
				"Bag chute and secure on plane",
				"Replace carb cover and exhaust plug",
				"Secure seat belts, zip saddle bags closed",
				"Replace prop covers",
				"Remove key",
				"Secure plane on trailer and strap down",
				"Verify nothing loose is left on plane",
				"Record Hobbs time and fuel remaining",
				"Log flight in logbook",
			}},
		},
	},
	{
		name:        "In-Flight Practice",
		description: "Track landings, maneuvers, and practice sessions",
		sections: []seedSection{
			{"Landings", models.ItemCounter, []string{
				"Normal Landing",
				"Crosswind Landing",
				"Short Field Landing",
				"Precision Spot Landing",
				"Touch and Go",
			}},
			{"Maneuvers", models.ItemCounter, []string{
				"Slow Flight",
				"Steep Turns (Left)",
				"Steep Turns (Right)",
				"S-Turns",
				"Figure 8s",
				"Power-Off Glides",
				"Emergency Descent",
				"Go-Around / Aborted Landing",
			}},
			{"Airwork", models.ItemCounter, []string{
				"Altitude Changes",
				"Coordinated Turns",
				"Traffic Pattern Work",
				"Ground Reference Maneuvers",
				"Wind Drift Correction",
			}},
			{"Emergency Procedures", models.ItemCounter, []string{
				"Simulated Engine Failure",
				"Emergency Landing Practice",
			}},
		},
	},
}
